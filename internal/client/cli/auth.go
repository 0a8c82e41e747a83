package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/client/router"
	"github.com/nayidisha/nayidisha-client/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getChoice     = GetChoice
)

// Login prompts for credentials and signs in. On success the router moves
// to the home of the token's roles. The password is wiped before returning.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	to, err := a.auth.SignIn(ctx, email, string(password))
	if err != nil {
		a.log.Warn(ctx, "login unsuccessful", "email", email, "error", err)
		return err
	}

	a.setMode(ctx, ModeOnline)
	fmt.Fprintf(a.out, "Welcome, %s. You are at %s\n", email, to)
	return nil
}

// Register prompts for the account fields and signs up as a regular user.
func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone number (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.auth.SignUp(ctx, models.SignUpRequest{
		Username:    username,
		Email:       email,
		Password:    string(password),
		PhoneNumber: phone,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	fmt.Fprintln(a.out, "Open the link from the email, or run: verify <token>")
	return nil
}

// Verify confirms an email address with the token from the verification
// link, then returns to sign-in.
func (a *App) Verify(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		var err error
		if token, err = getSimpleText(a.reader, "Enter verification token", a.out); err != nil {
			return err
		}
	}

	msg, err := a.auth.Verify(ctx, tokenFromLink(token))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	a.router.Navigate(ctx, router.PathLogin)
	return nil
}

// tokenFromLink accepts either a bare token or a pasted verification link.
func tokenFromLink(s string) string {
	if _, after, ok := strings.Cut(s, "token="); ok {
		token, _, _ := strings.Cut(after, "&")
		return token
	}
	return s
}

// Logout forgets the session token and clears every cached screen.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.board.Close()
	a.dispatcher.ResetIssues()
	a.dispatcher.ResetUsers()
	a.dispatcher.ResetReport()
	a.dispatcher.ResetComplaints()

	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	if !a.session.IsAuthenticated(ctx) {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	fmt.Fprintf(a.out, "Email:  %s\n", a.session.Subject(ctx))
	fmt.Fprintf(a.out, "Roles:  %s\n", strings.Join(a.session.Roles(ctx), ", "))
	if at, ok := a.session.SignedInAt(ctx); ok {
		fmt.Fprintf(a.out, "Since:  %s\n", at.Local().Format(time.DateTime))
	}
	if exp, ok := a.session.Expiry(ctx); ok {
		fmt.Fprintf(a.out, "Expiry: %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}
