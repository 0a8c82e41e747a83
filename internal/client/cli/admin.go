package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/client/state"
)

// awaitTimeout bounds how long search and filter wait for the debounced
// fetch, on top of the debounce delay.
const awaitTimeout = 30 * time.Second

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	view, err := a.dashboard.Load(ctx)
	if err != nil {
		return err
	}

	if view.Profile != nil {
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", view.Profile.Name, view.Profile.Email)
	}
	fmt.Fprintf(a.out, "Complaints: %d   Users: %d\n", view.TotalIssues, view.TotalUsers)
	for _, st := range models.Statuses {
		fmt.Fprintf(a.out, "  %-12s %d\n", st.Label(), view.Counts[st])
	}

	fmt.Fprintln(a.out, "\nRecent complaints")
	printIssues(a.out, view.Issues)
	fmt.Fprintln(a.out, "\nUsers")
	printUsers(a.out, view.Users)
	return nil
}

func (a *App) printIssueList() {
	list := a.dispatcher.Store().Snapshot().IssueList
	if search, status := a.board.Search(), a.board.StatusFilter(); search != "" || status != "" {
		fmt.Fprintf(a.out, "Search: %q  Status: %s\n", search, orDash(status.Label()))
	}
	printIssues(a.out, list.Issues)
	printPager(a.out, list.CurrentPage, list.TotalPages, list.TotalIssues)
}

func (a *App) Issues(ctx context.Context, _ []string) error {
	if err := a.board.Load(ctx); err != nil {
		return err
	}
	a.printIssueList()
	return nil
}

// Search sets the search term. The listing is refetched after the debounce
// delay; the REPL waits for that fetch before printing.
func (a *App) Search(ctx context.Context, args []string) error {
	wait, stop := a.awaitIssueFetch()
	defer stop()

	a.board.SetSearch(ctx, strings.Join(args, " "))
	if err := wait(ctx); err != nil {
		return err
	}
	a.printIssueList()
	return nil
}

// Filter narrows the listing to a status. No argument clears the filter.
func (a *App) Filter(ctx context.Context, args []string) error {
	var status models.IssueStatus
	if len(args) > 0 {
		status = models.IssueStatus(args[0])
	}

	wait, stop := a.awaitIssueFetch()
	defer stop()

	if err := a.board.SetStatusFilter(ctx, status); err != nil {
		return err
	}
	if err := wait(ctx); err != nil {
		return err
	}
	a.printIssueList()
	return nil
}

// awaitIssueFetch subscribes to the store. wait blocks until a fetch issued
// after this call has settled; stop drops the subscription.
func (a *App) awaitIssueFetch() (wait func(ctx context.Context) error, stop func()) {
	store := a.dispatcher.Store()
	ch, cancel := store.Subscribe()
	before := store.Snapshot().IssueList.Epochs[state.ActionFetchIssues]

	return func(ctx context.Context) error {
		timeout := time.NewTimer(a.config.DebounceDelay + awaitTimeout)
		defer timeout.Stop()

		for {
			select {
			case snap := <-ch:
				list := snap.IssueList
				if list.Epochs[state.ActionFetchIssues] <= before || list.Status.Loading() {
					continue
				}
				if list.Status.Phase == state.PhaseFailed {
					if list.Status.Cause != nil {
						return list.Status.Cause
					}
					return errors.New(list.Status.Err)
				}
				return nil
			case <-timeout.C:
				return fmt.Errorf("timed out waiting for complaints")
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}, cancel
}

func (a *App) Page(ctx context.Context, args []string) error {
	n, err := pageArg(args)
	if err != nil {
		return err
	}
	if err := a.board.GoToPage(ctx, n); err != nil {
		return err
	}
	a.printIssueList()
	return nil
}

func (a *App) Next(ctx context.Context, _ []string) error {
	if err := a.board.Next(ctx); err != nil {
		return err
	}
	a.printIssueList()
	return nil
}

func (a *App) Prev(ctx context.Context, _ []string) error {
	if err := a.board.Prev(ctx); err != nil {
		return err
	}
	a.printIssueList()
	return nil
}

func (a *App) Retry(ctx context.Context, _ []string) error {
	if err := a.board.Retry(ctx); err != nil {
		return err
	}
	a.printIssueList()
	return nil
}

func (a *App) View(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	is, err := a.board.View(ctx, id)
	if err != nil {
		return err
	}
	printIssue(a.out, is)
	return nil
}

// Status moves a complaint to a new status, e.g. "status 7 resolved".
func (a *App) Status(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: status <id> <in-progress|resolved|rejected>")
	}
	status := models.IssueStatus(strings.ReplaceAll(args[1], "-", ""))

	if err := a.board.ChangeStatus(ctx, id, status); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Complaint %d is now %s\n", id, models.IssueStatus(strings.ToUpper(string(status))).Label())
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.board.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Complaint %d deleted\n", id)
	a.printIssueList()
	return nil
}

// Users lists the user directory. Optional args: a page number counted from
// 1 and a sort field.
func (a *App) Users(ctx context.Context, args []string) error {
	var err error
	switch {
	case len(args) >= 2:
		if err = a.users.SortBy(ctx, args[1]); err == nil {
			err = a.gotoUserPage(ctx, args[:1])
		}
	case len(args) == 1:
		err = a.gotoUserPage(ctx, args)
	default:
		err = a.users.Load(ctx)
	}
	if err != nil {
		return err
	}

	list := a.dispatcher.Store().Snapshot().UserList
	printUsers(a.out, list.Users)
	printPager(a.out, list.CurrentPage, list.TotalPages, list.TotalUsers)
	return nil
}

func (a *App) gotoUserPage(ctx context.Context, args []string) error {
	n, err := pageArg(args)
	if err != nil {
		return err
	}
	if a.dispatcher.Store().Snapshot().UserList.TotalPages == 0 {
		if err := a.users.Load(ctx); err != nil {
			return err
		}
	}
	return a.users.GoToPage(ctx, n)
}

func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("complaint id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid complaint id %q", args[0])
	}
	return id, nil
}

// pageArg converts a 1-based page argument to the 0-based page index.
func pageArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("page number is required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page %q", args[0])
	}
	return n - 1, nil
}
