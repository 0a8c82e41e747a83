package services

import (
	"context"
	"sync"

	"github.com/nayidisha/nayidisha-client/internal/client/actions"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

const (
	UserPageSize = 6
	UserSortBy   = "id"
)

// UserDirectory is the admin user listing.
type UserDirectory struct {
	d *actions.Dispatcher

	mu     sync.Mutex
	sortBy string
}

func NewUserDirectory(d *actions.Dispatcher) *UserDirectory {
	return &UserDirectory{d: d, sortBy: UserSortBy}
}

func (u *UserDirectory) fetch(ctx context.Context, page int) error {
	u.mu.Lock()
	q := models.UserQuery{Page: page, Size: UserPageSize, SortBy: u.sortBy}
	u.mu.Unlock()
	_, err := u.d.FetchUsers(ctx, q)
	return err
}

func (u *UserDirectory) Load(ctx context.Context) error {
	return u.fetch(ctx, u.d.Store().Snapshot().UserList.CurrentPage)
}

// SortBy changes the sort field and reloads from page 0.
func (u *UserDirectory) SortBy(ctx context.Context, field string) error {
	if field == "" {
		field = UserSortBy
	}
	u.mu.Lock()
	u.sortBy = field
	u.mu.Unlock()
	return u.fetch(ctx, 0)
}

func (u *UserDirectory) GoToPage(ctx context.Context, p int) error {
	if p < 0 || p >= u.d.Store().Snapshot().UserList.TotalPages {
		return nil
	}
	return u.fetch(ctx, p)
}

func (u *UserDirectory) Next(ctx context.Context) error {
	return u.GoToPage(ctx, u.d.Store().Snapshot().UserList.CurrentPage+1)
}

func (u *UserDirectory) Prev(ctx context.Context) error {
	return u.GoToPage(ctx, u.d.Store().Snapshot().UserList.CurrentPage-1)
}

func (u *UserDirectory) Retry(ctx context.Context) error {
	return u.fetch(ctx, 0)
}
