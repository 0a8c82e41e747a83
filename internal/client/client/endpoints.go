package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

const (
	fallbackGeneric       = "Something went wrong"
	fallbackSignIn        = "Login failed"
	fallbackSignUp        = "Registration failed"
	fallbackVerify        = "Verification failed"
	fallbackIssues        = "Failed to fetch issues"
	fallbackIssueDetail   = "Failed to fetch issue details"
	fallbackUpdateStatus  = "Failed to update issue status"
	fallbackDeleteIssue   = "Failed to delete issue"
	fallbackUsers         = "Failed to fetch users"
	fallbackProfile       = "Failed to fetch profile"
	fallbackUpdateProfile = "Unknown error"
)

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (string, error) {
	body, err := jsonBody(models.SignInRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	var resp struct {
		JWT string `json:"jwt"`
	}
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/signin",
		body:        body,
		contentType: "application/json",
		fallback:    fallbackSignIn,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.JWT == "" {
		return "", &APIError{Kind: KindBackend, Message: fallbackSignIn}
	}
	return resp.JWT, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, req models.SignUpRequest) (string, error) {
	body, err := jsonBody(req)
	if err != nil {
		return "", err
	}

	var msg string
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/signup",
		body:        body,
		contentType: "application/json",
		fallback:    fallbackSignUp,
	}, &msg)
	return msg, err
}

func (c *HTTPClient) Verify(ctx context.Context, token string) (string, error) {
	var msg string
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/auth/verify",
		query:    url.Values{"token": {token}},
		fallback: fallbackVerify,
	}, &msg)
	return msg, err
}

// ListIssues omits empty search and status from the query.
func (c *HTTPClient) ListIssues(ctx context.Context, q models.IssueQuery) (*models.Page[models.Issue], error) {
	params := pageQuery(q.Page, q.Size, q.SortBy)
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}

	var page models.Page[models.Issue]
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/admin/issues",
		query:    params,
		fallback: fallbackIssues,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ViewIssue fails with KindUnauthenticated without a request when no token
// is stored.
func (c *HTTPClient) ViewIssue(ctx context.Context, id int64) (*models.Issue, error) {
	if err := c.requireToken(ctx); err != nil {
		return nil, err
	}

	var issue models.Issue
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/admin/view-issue/" + strconv.FormatInt(id, 10),
		fallback: fallbackIssueDetail,
	}, &issue)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssueStatus accepts INPROGRESS, REJECTED and RESOLVED in any case.
// Anything else fails with ErrInvalidStatus before a request is made.
func (c *HTTPClient) UpdateIssueStatus(ctx context.Context, id int64, status models.IssueStatus) (*models.Issue, error) {
	segment, ok := models.IssueStatus(strings.ToUpper(string(status))).TransitionPath()
	if !ok {
		return nil, ValidationError("Invalid status", ErrInvalidStatus)
	}

	var issue models.Issue
	err := c.do(ctx, request{
		method:      http.MethodPatch,
		path:        "/api/admin/issues/" + strconv.FormatInt(id, 10) + "/" + segment,
		body:        []byte("{}"),
		contentType: "application/json",
		fallback:    fallbackUpdateStatus,
	}, &issue)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *HTTPClient) DeleteIssue(ctx context.Context, id int64) (*models.DeleteAck, error) {
	var ack models.DeleteAck
	err := c.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/api/admin/issues/" + strconv.FormatInt(id, 10),
		fallback: fallbackDeleteIssue,
	}, &ack)
	if err != nil {
		return nil, err
	}
	if ack.ID == 0 {
		ack.ID = id
	}
	return &ack, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, q models.UserQuery) (*models.Page[models.User], error) {
	var page models.Page[models.User]
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/admin/get-all-users",
		query:    pageQuery(q.Page, q.Size, q.SortBy),
		fallback: fallbackUsers,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) AdminProfile(ctx context.Context) (*models.Profile, error) {
	return c.profile(ctx, "/api/admin/profile")
}

func (c *HTTPClient) UserProfile(ctx context.Context) (*models.Profile, error) {
	return c.profile(ctx, "/api/users/profile")
}

func (c *HTTPClient) profile(ctx context.Context, path string) (*models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, request{method: http.MethodGet, path: path, fallback: fallbackProfile}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile sends a multipart body. The picture part is present only
// when upd.Picture is set.
func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	body, contentType, err := encodeProfileUpdate(upd)
	if err != nil {
		return nil, ValidationError("Could not encode profile update", err)
	}

	var p models.Profile
	err = c.do(ctx, request{
		method:      http.MethodPatch,
		path:        "/api/users/profile/update",
		body:        body,
		contentType: contentType,
		fallback:    fallbackUpdateProfile,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) SubmitReport(ctx context.Context, form models.ReportForm) (*models.Issue, error) {
	body, contentType, err := encodeReport(form)
	if err != nil {
		return nil, ValidationError("Could not encode report", err)
	}

	var issue models.Issue
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/users/reportIssue/",
		body:        body,
		contentType: contentType,
		fallback:    fallbackGeneric,
	}, &issue)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *HTTPClient) MyIssues(ctx context.Context) ([]models.Issue, error) {
	var issues []models.Issue
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/users/issues", fallback: fallbackGeneric}, &issues)
	if err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues, nil
}

// ViewReport has the same no-token short circuit as ViewIssue.
func (c *HTTPClient) ViewReport(ctx context.Context, id int64) (*models.Issue, error) {
	if err := c.requireToken(ctx); err != nil {
		return nil, err
	}

	var issue models.Issue
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/users/reportIssue/" + strconv.FormatInt(id, 10),
		fallback: fallbackGeneric,
	}, &issue)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// Ping reports whether the backend answers at all; any HTTP status counts.
func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, request{method: http.MethodHead, path: "/", anonymous: true})
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: MsgUnavailable, Err: errors.Join(ErrUnavailable, err)}
	}
	resp.Body.Close()
	return nil
}

func pageQuery(page, size int, sortBy string) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))
	if sortBy != "" {
		v.Set("sortBy", sortBy)
	}
	return v
}
