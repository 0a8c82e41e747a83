package client

import (
	"context"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

// Client is the consumed subset of the NayiDisha REST API. Every error it
// returns is an *APIError.
type Client interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, req models.SignUpRequest) (string, error)
	Verify(ctx context.Context, token string) (string, error)

	ListIssues(ctx context.Context, q models.IssueQuery) (*models.Page[models.Issue], error)
	ViewIssue(ctx context.Context, id int64) (*models.Issue, error)
	UpdateIssueStatus(ctx context.Context, id int64, status models.IssueStatus) (*models.Issue, error)
	DeleteIssue(ctx context.Context, id int64) (*models.DeleteAck, error)
	ListUsers(ctx context.Context, q models.UserQuery) (*models.Page[models.User], error)
	AdminProfile(ctx context.Context) (*models.Profile, error)

	UserProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error)
	SubmitReport(ctx context.Context, form models.ReportForm) (*models.Issue, error)
	MyIssues(ctx context.Context) ([]models.Issue, error)
	ViewReport(ctx context.Context, id int64) (*models.Issue, error)

	Ping(ctx context.Context) error
}

// TokenStore is what the adapter needs from the session.
type TokenStore interface {
	Token(ctx context.Context) (string, bool)
	Logout(ctx context.Context) error
}
