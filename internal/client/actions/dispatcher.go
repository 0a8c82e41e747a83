// Package actions runs API calls as observable state transitions: each call
// dispatches Pending, then Fulfilled or Rejected, into the state store.
package actions

import (
	"context"

	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/client/session"
	"github.com/nayidisha/nayidisha-client/internal/client/state"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

// Credentials is the session as the dispatcher sees it.
type Credentials interface {
	IsAuthenticated(ctx context.Context) bool
	Roles(ctx context.Context) []string
}

// Dispatcher never panics and only ever returns *client.APIError.
type Dispatcher struct {
	client client.Client
	store  *state.Store
	creds  Credentials
	log    logging.Logger

	onUnauthenticated func(ctx context.Context)
}

type Option func(*Dispatcher)

// WithOnUnauthenticated registers the hook fired when an admin action is
// attempted without a stored token.
func WithOnUnauthenticated(fn func(ctx context.Context)) Option {
	return func(d *Dispatcher) { d.onUnauthenticated = fn }
}

func NewDispatcher(c client.Client, store *state.Store, creds Credentials, log logging.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{client: c, store: store, creds: creds, log: log}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Store() *state.Store {
	return d.store
}

// run executes call as action. Begin issues the epoch and dispatches Pending
// in one step. pre, when set, is checked after Pending and can reject
// without touching the network.
func run[T any](ctx context.Context, d *Dispatcher, action state.Action, fallback string, pre func() error, call func() (T, error)) (T, error) {
	epoch := d.store.Begin(action)

	var (
		result T
		err    error
	)
	if pre != nil {
		err = pre()
	}
	if err == nil {
		result, err = call()
	}

	if err != nil {
		apiErr := client.AsAPIError(err, fallback)
		d.log.Warn(ctx, "action rejected",
			"action", string(action), "epoch", epoch, "kind", apiErr.Kind.String(), "error", apiErr.Message)
		d.store.Dispatch(state.Event{Action: action, Outcome: state.Rejected, Epoch: epoch, Err: apiErr})
		var zero T
		return zero, apiErr
	}

	d.log.Debug(ctx, "action fulfilled", "action", string(action), "epoch", epoch)
	d.store.Dispatch(state.Event{Action: action, Outcome: state.Fulfilled, Epoch: epoch, Payload: result})
	return result, nil
}

// requireAdmin rejects before the network. No token is an authentication
// failure and fires the hook; a token without ROLE_ADMIN is forbidden.
func (d *Dispatcher) requireAdmin(ctx context.Context) func() error {
	return func() error {
		if !d.creds.IsAuthenticated(ctx) {
			if d.onUnauthenticated != nil {
				d.onUnauthenticated(ctx)
			}
			return &client.APIError{Kind: client.KindUnauthenticated, Message: client.MsgNoToken, Err: client.ErrUnauthenticated}
		}
		if session.HasAnyRole([]string{models.RoleAdmin}, d.creds.Roles(ctx)) {
			return nil
		}
		return &client.APIError{Kind: client.KindForbidden, Message: client.MsgForbidden, Err: client.ErrForbidden}
	}
}

func (d *Dispatcher) FetchIssues(ctx context.Context, q models.IssueQuery) (*models.Page[models.Issue], error) {
	return run(ctx, d, state.ActionFetchIssues, "Failed to fetch issues", d.requireAdmin(ctx),
		func() (*models.Page[models.Issue], error) { return d.client.ListIssues(ctx, q) })
}

func (d *Dispatcher) ViewIssue(ctx context.Context, id int64) (*models.Issue, error) {
	return run(ctx, d, state.ActionViewIssue, "Failed to fetch issue details", d.requireAdmin(ctx),
		func() (*models.Issue, error) { return d.client.ViewIssue(ctx, id) })
}

func (d *Dispatcher) UpdateIssueStatus(ctx context.Context, id int64, status models.IssueStatus) (*models.Issue, error) {
	return run(ctx, d, state.ActionUpdateIssueStatus, "Failed to update issue status", d.requireAdmin(ctx),
		func() (*models.Issue, error) { return d.client.UpdateIssueStatus(ctx, id, status) })
}

func (d *Dispatcher) DeleteIssue(ctx context.Context, id int64) (*models.DeleteAck, error) {
	return run(ctx, d, state.ActionDeleteIssue, "Failed to delete issue", d.requireAdmin(ctx),
		func() (*models.DeleteAck, error) { return d.client.DeleteIssue(ctx, id) })
}

func (d *Dispatcher) FetchUsers(ctx context.Context, q models.UserQuery) (*models.Page[models.User], error) {
	return run(ctx, d, state.ActionFetchUsers, "Failed to fetch users", d.requireAdmin(ctx),
		func() (*models.Page[models.User], error) { return d.client.ListUsers(ctx, q) })
}

func (d *Dispatcher) FetchAdminProfile(ctx context.Context) (*models.Profile, error) {
	return run(ctx, d, state.ActionFetchAdminProf, "Failed to fetch profile", d.requireAdmin(ctx),
		func() (*models.Profile, error) { return d.client.AdminProfile(ctx) })
}

func (d *Dispatcher) FetchUserProfile(ctx context.Context) (*models.Profile, error) {
	return run(ctx, d, state.ActionFetchUserProfile, "Unknown error", nil,
		func() (*models.Profile, error) { return d.client.UserProfile(ctx) })
}

func (d *Dispatcher) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	return run(ctx, d, state.ActionUpdateProfile, "Unknown error", nil,
		func() (*models.Profile, error) { return d.client.UpdateProfile(ctx, upd) })
}

func (d *Dispatcher) SubmitReport(ctx context.Context, form models.ReportForm) (*models.Issue, error) {
	return run(ctx, d, state.ActionSubmitReport, "Something went wrong", nil,
		func() (*models.Issue, error) { return d.client.SubmitReport(ctx, form) })
}

func (d *Dispatcher) FetchMyComplaints(ctx context.Context) ([]models.Issue, error) {
	return run(ctx, d, state.ActionFetchMyComplaints, "Something went wrong", nil,
		func() ([]models.Issue, error) { return d.client.MyIssues(ctx) })
}

func (d *Dispatcher) ViewReport(ctx context.Context, id int64) (*models.Issue, error) {
	return run(ctx, d, state.ActionViewReport, "Failed to fetch complaint details", nil,
		func() (*models.Issue, error) { return d.client.ViewReport(ctx, id) })
}

// ResetIssues and ResetUsers restore the list slices to their initial state.
func (d *Dispatcher) ResetIssues() {
	d.store.Dispatch(state.Event{Action: state.ActionResetIssues})
}

func (d *Dispatcher) ResetUsers() {
	d.store.Dispatch(state.Event{Action: state.ActionResetUsers})
}

func (d *Dispatcher) ResetReport() {
	d.store.Dispatch(state.Event{Action: state.ActionResetReport})
}

func (d *Dispatcher) ResetComplaints() {
	d.store.Dispatch(state.Event{Action: state.ActionResetComplaints})
}
