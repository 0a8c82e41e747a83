package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/client/actions"
	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/client/router"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

const (
	IssuePageSize   = 6
	IssueSortBy     = "createdAt"
	DefaultDebounce = 300 * time.Millisecond
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// SanitizeSearch trims term and drops everything but word characters and
// whitespace.
func SanitizeSearch(term string) string {
	return nonWord.ReplaceAllString(strings.TrimSpace(term), "")
}

// Navigator is the part of the router the views use.
type Navigator interface {
	router.Navigator
	Current() string
}

// toSignIn navigates to sign-in unless the unauthenticated hook already did.
func toSignIn(ctx context.Context, nav Navigator) {
	if nav.Current() != router.PathLogin {
		nav.Navigate(ctx, router.PathLogin)
	}
}

// IssueBoard is the admin complaint listing.
type IssueBoard struct {
	d   *actions.Dispatcher
	nav Navigator
	log logging.Logger

	debounce *debouncer

	mu     sync.Mutex
	search string
	status models.IssueStatus
}

func NewIssueBoard(d *actions.Dispatcher, nav Navigator, log logging.Logger, delay time.Duration) *IssueBoard {
	return &IssueBoard{d: d, nav: nav, log: log, debounce: newDebouncer(delay)}
}

func (b *IssueBoard) query(page int) models.IssueQuery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return models.IssueQuery{
		Page:   page,
		Size:   IssuePageSize,
		SortBy: IssueSortBy,
		Search: b.search,
		Status: b.status,
	}
}

func (b *IssueBoard) fetch(ctx context.Context, page int) error {
	_, err := b.d.FetchIssues(ctx, b.query(page))
	return err
}

// Load fetches the current page.
func (b *IssueBoard) Load(ctx context.Context) error {
	return b.fetch(ctx, b.d.Store().Snapshot().IssueList.CurrentPage)
}

func (b *IssueBoard) Search() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.search
}

func (b *IssueBoard) StatusFilter() models.IssueStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// SetSearch stores the sanitized term and fetches page 0 after the debounce
// delay. Only the last of a burst of calls fetches.
func (b *IssueBoard) SetSearch(ctx context.Context, term string) {
	b.mu.Lock()
	b.search = SanitizeSearch(term)
	b.mu.Unlock()
	b.refetchLater(ctx)
}

// SetStatusFilter narrows the listing to status; empty clears the filter.
func (b *IssueBoard) SetStatusFilter(ctx context.Context, status models.IssueStatus) error {
	if status != "" {
		parsed, err := models.ParseStatus(string(status))
		if err != nil {
			return client.ValidationError("Invalid status", client.ErrInvalidStatus)
		}
		status = parsed
	}
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
	b.refetchLater(ctx)
	return nil
}

func (b *IssueBoard) refetchLater(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	b.debounce.schedule(func() {
		if err := b.fetch(ctx, 0); err != nil {
			b.log.Debug(ctx, "debounced fetch failed", "error", err)
		}
	})
}

// Close drops a pending debounced fetch.
func (b *IssueBoard) Close() {
	b.debounce.stop()
}

// GoToPage fetches page p; out-of-range pages are ignored.
func (b *IssueBoard) GoToPage(ctx context.Context, p int) error {
	if p < 0 || p >= b.d.Store().Snapshot().IssueList.TotalPages {
		return nil
	}
	return b.fetch(ctx, p)
}

func (b *IssueBoard) Next(ctx context.Context) error {
	return b.GoToPage(ctx, b.d.Store().Snapshot().IssueList.CurrentPage+1)
}

func (b *IssueBoard) Prev(ctx context.Context) error {
	return b.GoToPage(ctx, b.d.Store().Snapshot().IssueList.CurrentPage-1)
}

// Retry reloads the first page after a failure.
func (b *IssueBoard) Retry(ctx context.Context) error {
	return b.fetch(ctx, 0)
}

// ChangeStatus moves issue id to status and reloads the current page.
func (b *IssueBoard) ChangeStatus(ctx context.Context, id int64, status models.IssueStatus) error {
	if _, err := b.d.UpdateIssueStatus(ctx, id, status); err != nil {
		return err
	}
	return b.Load(ctx)
}

// Delete removes issue id and reloads. Deleting the last row of a page
// other than the first steps back one page.
func (b *IssueBoard) Delete(ctx context.Context, id int64) error {
	list := b.d.Store().Snapshot().IssueList
	page := list.CurrentPage
	if len(list.Issues) == 1 && page > 0 {
		page--
	}

	if _, err := b.d.DeleteIssue(ctx, id); err != nil {
		return err
	}
	return b.fetch(ctx, page)
}

// View opens issue id. An expired session clears the listing and sends the
// user to sign-in.
func (b *IssueBoard) View(ctx context.Context, id int64) (*models.Issue, error) {
	is, err := b.d.ViewIssue(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrUnauthenticated) {
			b.d.ResetIssues()
			toSignIn(ctx, b.nav)
		}
		return nil, err
	}
	return is, nil
}
