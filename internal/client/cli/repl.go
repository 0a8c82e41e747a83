package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/nayidisha/nayidisha-client/internal/client/router"
	"github.com/nayidisha/nayidisha-client/internal/client/state"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const (
	pathAdminIssues    = router.PathAdmin + "/issues"
	pathAdminUsers     = router.PathAdmin + "/users"
	pathAdminExport    = router.PathAdmin + "/export"
	pathUserReport     = router.PathUser + "/report"
	pathUserComplaints = router.PathUser + "/complaints"
	pathUserProfile    = router.PathUser + "/profile"
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	authorize(ctx context.Context, path string) bool
	navigate(ctx context.Context, path string) router.Decision

	Login(ctx context.Context, args []string) error
	Register(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error

	Dashboard(ctx context.Context, args []string) error
	Issues(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Next(ctx context.Context, args []string) error
	Prev(ctx context.Context, args []string) error
	Retry(ctx context.Context, args []string) error
	View(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error

	Report(ctx context.Context, args []string) error
	Mine(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	EditProfile(ctx context.Context, args []string) error
}

// command is one REPL verb. A non-empty path is navigated to before run; a
// refused navigation skips the command.
type command struct {
	name  string
	path  string
	usage string
	run   func(execIface, context.Context, []string) error
}

var commands = []command{
	{"login", router.PathLogin, "sign in", execIface.Login},
	{"register", router.PathRegister, "create an account", execIface.Register},
	{"verify", router.PathVerifyEmail, "verify <token>", execIface.Verify},
	{"logout", "", "sign out", execIface.Logout},
	{"whoami", "", "show the current session", execIface.WhoAmI},

	{"dashboard", router.PathAdmin, "admin overview", execIface.Dashboard},
	{"issues", pathAdminIssues, "list complaints", execIface.Issues},
	{"search", pathAdminIssues, "search <text>, empty clears", execIface.Search},
	{"filter", pathAdminIssues, "filter <status>, empty clears", execIface.Filter},
	{"page", pathAdminIssues, "page <n>, counted from 1", execIface.Page},
	{"next", pathAdminIssues, "next page", execIface.Next},
	{"prev", pathAdminIssues, "previous page", execIface.Prev},
	{"retry", pathAdminIssues, "reload the current page", execIface.Retry},
	{"view", pathAdminIssues, "view <id>", execIface.View},
	{"status", pathAdminIssues, "status <id> <in-progress|resolved|rejected>", execIface.Status},
	{"delete", pathAdminIssues, "delete <id>", execIface.Delete},
	{"users", pathAdminUsers, "users [page] [sort field]", execIface.Users},
	{"export", pathAdminExport, "export pdf|xlsx|detail <id>", execIface.Export},

	{"report", pathUserReport, "file a new complaint", execIface.Report},
	{"mine", pathUserComplaints, "mine [search text], filter:<status>, sort:asc|desc, page:<n>", execIface.Mine},
	{"show", pathUserComplaints, "show <id>", execIface.Show},
	{"profile", pathUserProfile, "show your profile", execIface.Profile},
	{"editprofile", pathUserProfile, "edit your profile", execIface.EditProfile},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// available lists the commands the current session may run.
func available(ctx context.Context, a execIface) []string {
	names := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		if c.path == "" || a.authorize(ctx, c.path) {
			names = append(names, c.name)
		}
	}
	return append(names, "help", "exit")
}

// runREPL starts a read–eval–print loop for the NayiDisha CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Before running a command the REPL navigates to the command's route. When
// the router refuses, the redirect target is printed and the command is
// skipped. Command errors are printed with their user-facing message.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nd %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			for _, n := range available(ctx, a) {
				if c, ok := lookup(n); ok {
					printlnFn(fmt.Sprintf("  %-12s %s", c.name, c.usage))
				}
			}
			printlnFn(fmt.Sprintf("  %-12s %s", "exit", "leave the program"))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := lookup(name)
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}

		if cmd.path != "" {
			if d := a.navigate(ctx, cmd.path); d.Redirected() {
				printlnFn("Not allowed here, redirected to", d.To)
				continue
			}
		}

		if err := cmd.run(a, ctx, args); err != nil {
			printlnFn("Error:", state.Message(err, err.Error()))
		}
	}
}
