package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/router"
	"github.com/stretchr/testify/require"
)

// fakeExec records calls. allowed is the set of route prefixes it lets in.
type fakeExec struct {
	allowed []string
	fail    map[string]error

	calls []string
	args  map[string][]string
}

func (f *fakeExec) authorize(_ context.Context, path string) bool {
	for _, p := range f.allowed {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func (f *fakeExec) navigate(ctx context.Context, path string) router.Decision {
	if f.authorize(ctx, path) {
		return router.Decision{Authorized: true, To: path}
	}
	return router.Decision{To: router.PathUnauthorized}
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.fail[name]
}

func (f *fakeExec) Login(_ context.Context, a []string) error    { return f.record("login", a) }
func (f *fakeExec) Register(_ context.Context, a []string) error { return f.record("register", a) }
func (f *fakeExec) Verify(_ context.Context, a []string) error   { return f.record("verify", a) }
func (f *fakeExec) Logout(_ context.Context, a []string) error   { return f.record("logout", a) }
func (f *fakeExec) WhoAmI(_ context.Context, a []string) error   { return f.record("whoami", a) }

func (f *fakeExec) Dashboard(_ context.Context, a []string) error { return f.record("dashboard", a) }
func (f *fakeExec) Issues(_ context.Context, a []string) error    { return f.record("issues", a) }
func (f *fakeExec) Search(_ context.Context, a []string) error    { return f.record("search", a) }
func (f *fakeExec) Filter(_ context.Context, a []string) error    { return f.record("filter", a) }
func (f *fakeExec) Page(_ context.Context, a []string) error      { return f.record("page", a) }
func (f *fakeExec) Next(_ context.Context, a []string) error      { return f.record("next", a) }
func (f *fakeExec) Prev(_ context.Context, a []string) error      { return f.record("prev", a) }
func (f *fakeExec) Retry(_ context.Context, a []string) error     { return f.record("retry", a) }
func (f *fakeExec) View(_ context.Context, a []string) error      { return f.record("view", a) }
func (f *fakeExec) Status(_ context.Context, a []string) error    { return f.record("status", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error    { return f.record("delete", a) }
func (f *fakeExec) Users(_ context.Context, a []string) error     { return f.record("users", a) }
func (f *fakeExec) Export(_ context.Context, a []string) error    { return f.record("export", a) }

func (f *fakeExec) Report(_ context.Context, a []string) error      { return f.record("report", a) }
func (f *fakeExec) Mine(_ context.Context, a []string) error        { return f.record("mine", a) }
func (f *fakeExec) Show(_ context.Context, a []string) error        { return f.record("show", a) }
func (f *fakeExec) Profile(_ context.Context, a []string) error     { return f.record("profile", a) }
func (f *fakeExec) EditProfile(_ context.Context, a []string) error { return f.record("editprofile", a) }

var publicPaths = []string{router.PathLogin, router.PathRegister, router.PathVerifyEmail}

// captureOutput swaps printlnFn for a recorder.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_AdminCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"issues",
		"search water supply",
		"",
		"view 7",
		"status 7 resolved",
		"export pdf",
		"users 2 name",
		"exit",
		"issues",
	}, "\n")

	exec := &fakeExec{allowed: append(publicPaths, router.PathAdmin)}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	require.Equal(t, []string{"issues", "search", "view", "status", "export", "users"}, exec.calls)
	require.Equal(t, []string{"water", "supply"}, exec.args["search"])
	require.Equal(t, []string{"7", "resolved"}, exec.args["status"])
	require.Equal(t, []string{"2", "name"}, exec.args["users"])
	require.Contains(t, *out, "Bye!")
}

func TestRunREPL_GuardRedirects(t *testing.T) {
	out := captureOutput(t)

	input := "issues\nreport\nmine\nlogin\n"
	exec := &fakeExec{allowed: append(publicPaths, router.PathUser)}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr(input))

	require.Equal(t, []string{"report", "mine", "login"}, exec.calls)
	require.Contains(t, *out, "Not allowed here, redirected to "+router.PathUnauthorized)
}

func TestRunREPL_UnknownAndErrors(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{
		allowed: publicPaths,
		fail: map[string]error{
			"login":  &client.APIError{Kind: client.KindBackend, Message: "Invalid email or password"},
			"verify": errors.New("plain failure"),
		},
	}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("foobar\nlogin\nverify abc\nquit\n"))

	require.Equal(t, []string{"login", "verify"}, exec.calls)
	require.Contains(t, *out, "Unknown command: foobar")
	require.Contains(t, *out, "Error: Invalid email or password")
	require.Contains(t, *out, "Error: plain failure")
	require.Contains(t, *out, "Bye!")
}

func TestRunREPL_HelpListsOnlyReachableCommands(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{allowed: append(publicPaths, router.PathUser)}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("help"))

	joined := strings.Join(*out, "\n")
	require.Contains(t, joined, "report")
	require.Contains(t, joined, "whoami")
	require.NotContains(t, joined, "dashboard")
	require.NotContains(t, joined, "export")
	require.Empty(t, exec.calls)
}

func TestAvailable(t *testing.T) {
	ctx := context.Background()

	admin := available(ctx, &fakeExec{allowed: append(publicPaths, router.PathAdmin)})
	require.Contains(t, admin, "dashboard")
	require.Contains(t, admin, "users")
	require.NotContains(t, admin, "report")
	require.Contains(t, admin, "help")

	anon := available(ctx, &fakeExec{allowed: publicPaths})
	require.Equal(t, []string{"login", "register", "verify", "logout", "whoami", "help", "exit"}, anon)
}

func TestIdAndPageArgs(t *testing.T) {
	id, err := idArg([]string{"42"})
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	for _, bad := range [][]string{nil, {"x"}, {"0"}, {"-3"}} {
		_, err := idArg(bad)
		require.Error(t, err, "%v", bad)
	}

	p, err := pageArg([]string{"3"})
	require.NoError(t, err)
	require.Equal(t, 2, p)

	_, err = pageArg([]string{"0"})
	require.Error(t, err)
}

func TestParseCoords(t *testing.T) {
	lat, lon, err := parseCoords("")
	require.NoError(t, err)
	require.Nil(t, lat)
	require.Nil(t, lon)

	lat, lon, err = parseCoords(" 19.07 , 72.87 ")
	require.NoError(t, err)
	require.InDelta(t, 19.07, *lat, 1e-9)
	require.InDelta(t, 72.87, *lon, 1e-9)

	_, _, err = parseCoords("19.07")
	require.Error(t, err)
	_, _, err = parseCoords("north,72")
	require.Error(t, err)
}

func TestTokenFromLink(t *testing.T) {
	require.Equal(t, "abc", tokenFromLink("abc"))
	require.Equal(t, "abc", tokenFromLink("https://nayidisha.in/verify-email?token=abc"))
	require.Equal(t, "abc", tokenFromLink("/verify-email?token=abc&utm=x"))
}
