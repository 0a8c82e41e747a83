package services

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/client/router"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

// Session is the token store the auth flow signs in and out of.
type Session interface {
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	Roles(ctx context.Context) []string
	IsAuthenticated(ctx context.Context) bool
}

// AuthService covers sign-in, sign-up, email verification and sign-out.
type AuthService struct {
	client   client.Client
	session  Session
	nav      router.Navigator
	validate *validator.Validate
	log      logging.Logger
}

func NewAuthService(c client.Client, s Session, nav router.Navigator, log logging.Logger) *AuthService {
	return &AuthService{client: c, session: s, nav: nav, validate: NewValidator(), log: log}
}

// SignIn stores the returned token and navigates to the home of its roles.
// It returns the path entered.
func (a *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", client.ValidationError("Email and password are required", nil)
	}

	token, err := a.client.SignIn(ctx, email, password)
	if err != nil {
		return "", err
	}
	if err := a.session.Login(ctx, token); err != nil {
		return "", err
	}

	d := a.nav.Navigate(ctx, router.HomeFor(a.session.Roles(ctx)))
	return d.To, nil
}

// SignUp registers an account. Without roles it asks for ROLE_USER.
func (a *AuthService) SignUp(ctx context.Context, req models.SignUpRequest) (string, error) {
	if len(req.Roles) == 0 {
		req.Roles = []string{models.RoleUser}
	}
	if err := a.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "email" {
			return "", client.ValidationError(MsgInvalidEmail, err)
		}
		return "", client.ValidationError("Username, email and a password of at least 6 characters are required", err)
	}

	msg, err := a.client.SignUp(ctx, req)
	if err != nil {
		return "", err
	}
	a.nav.Navigate(ctx, router.PathVerifyEmail)
	return msg, nil
}

func (a *AuthService) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", client.ValidationError("Verification token is missing", nil)
	}
	return a.client.Verify(ctx, token)
}

// Logout forgets the token and returns to sign-in.
func (a *AuthService) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.nav.Navigate(ctx, router.PathLogin)
	return nil
}

func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
