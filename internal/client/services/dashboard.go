package services

import (
	"context"

	"github.com/nayidisha/nayidisha-client/internal/client/actions"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"golang.org/x/sync/errgroup"
)

const DashboardUserCount = 3

// DashboardView is the admin landing screen.
type DashboardView struct {
	Profile     *models.Profile
	Issues      []models.Issue
	TotalIssues int
	Users       []models.User
	TotalUsers  int
	Counts      models.StatusCounts
}

type Dashboard struct {
	d *actions.Dispatcher
}

func NewDashboard(d *actions.Dispatcher) *Dashboard {
	return &Dashboard{d: d}
}

// Load fetches the profile, the newest issues and the first users in
// parallel. Counts cover the loaded page only.
func (db *Dashboard) Load(ctx context.Context) (*DashboardView, error) {
	var (
		view   DashboardView
		issues *models.Page[models.Issue]
		users  *models.Page[models.User]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := db.d.FetchAdminProfile(gctx)
		view.Profile = p
		return err
	})
	g.Go(func() error {
		var err error
		issues, err = db.d.FetchIssues(gctx, models.IssueQuery{Size: IssuePageSize, SortBy: IssueSortBy})
		return err
	})
	g.Go(func() error {
		var err error
		users, err = db.d.FetchUsers(gctx, models.UserQuery{Size: DashboardUserCount, SortBy: UserSortBy})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.Issues = issues.Content
	view.TotalIssues = issues.TotalElements
	view.Users = users.Content
	view.TotalUsers = users.TotalElements
	view.Counts = models.CountStatuses(issues.Content)
	return &view, nil
}
