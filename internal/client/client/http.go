package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nayidisha/nayidisha-client/internal/common"
	"github.com/nayidisha/nayidisha-client/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	DevelopmentBaseURL = "http://localhost:2512"
	ProductionBaseURL  = "https://nayidishaserver-production.up.railway.app"

	maxErrorBody = 64 << 10
)

// HTTPClient implements Client over HTTP/JSON.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenStore
	log     logging.Logger

	onUnauthenticated func(ctx context.Context)

	retryBase     time.Duration
	retryAttempts uint64
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithOnUnauthenticated registers the hook fired after a 401 has cleared the
// token. The router uses it to navigate to the sign-in page.
func WithOnUnauthenticated(fn func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.onUnauthenticated = fn }
}

// WithRetry sets the GET retry policy: attempts in total and the base of the
// exponential backoff.
func WithRetry(attempts uint64, base time.Duration) Option {
	return func(c *HTTPClient) {
		c.retryAttempts = attempts
		c.retryBase = base
	}
}

func NewHTTPClient(baseURL string, tokens TokenStore, log logging.Logger, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &HTTPClient{
		baseURL:       u,
		http:          &http.Client{Timeout: 30 * time.Second},
		tokens:        tokens,
		log:           log,
		retryBase:     200 * time.Millisecond,
		retryAttempts: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetOnUnauthenticated replaces the 401 hook after construction.
func (c *HTTPClient) SetOnUnauthenticated(fn func(ctx context.Context)) {
	c.onUnauthenticated = fn
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL.String()
}

// request describes one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	fallback    string
	anonymous   bool
}

func (c *HTTPClient) newRequest(ctx context.Context, r request, requestID string) (*http.Request, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set(common.AcceptHeader, "application/json")
	req.Header.Set(common.RequestIDHeader, requestID)
	if r.contentType != "" {
		req.Header.Set(common.ContentTypeHeader, r.contentType)
	}

	if r.anonymous {
		return req, nil
	}
	if token, ok := c.tokens.Token(ctx); ok {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	} else {
		c.log.Warn(ctx, "no token found for request", "path", r.path, "request_id", requestID)
	}
	return req, nil
}

// send performs r, retrying GETs on transport errors only.
func (c *HTTPClient) send(ctx context.Context, r request) (*http.Response, error) {
	requestID := uuid.NewString()

	if r.method != http.MethodGet && r.method != http.MethodHead {
		req, err := c.newRequest(ctx, r, requestID)
		if err != nil {
			return nil, err
		}
		return c.http.Do(req)
	}

	var resp *http.Response
	backoff := retry.WithMaxRetries(max(c.retryAttempts, 1)-1, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := c.newRequest(ctx, r, requestID)
		if err != nil {
			return err
		}
		resp, err = c.http.Do(req)
		if err != nil {
			c.log.Debug(ctx, "request failed, retrying", "path", r.path, "request_id", requestID, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	return resp, err
}

// do runs the pipeline and decodes a 2xx body into out (nil discards it).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", r.method, "path", r.path, "error", err)
		return &APIError{Kind: KindNetwork, Message: MsgUnavailable, Err: errors.Join(ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeBody(resp.Body, out)
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := c.classify(ctx, resp.StatusCode, raw, r.fallback)
	c.log.Warn(ctx, "request rejected",
		"method", r.method, "path", r.path, "status", resp.StatusCode, "kind", apiErr.Kind.String())
	return apiErr
}

// classify maps a non-2xx response to an APIError. A 401 also clears the
// token and fires the unauthenticated hook.
func (c *HTTPClient) classify(ctx context.Context, status int, raw []byte, fallback string) *APIError {
	switch status {
	case http.StatusUnauthorized:
		c.unauthenticated(ctx)
		return &APIError{Kind: KindUnauthenticated, Status: status, Message: MsgSessionExpired, Body: raw}
	case http.StatusForbidden:
		return &APIError{Kind: KindForbidden, Status: status, Message: MsgForbidden, Body: raw}
	case http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Status: status, Message: backendMessage(raw, MsgNotFound), Body: raw}
	default:
		return &APIError{Kind: KindBackend, Status: status, Message: backendMessage(raw, fallback), Body: raw}
	}
}

func (c *HTTPClient) unauthenticated(ctx context.Context) {
	if err := c.tokens.Logout(ctx); err != nil {
		c.log.Error(ctx, "failed to clear token", "error", err)
	}
	if c.onUnauthenticated != nil {
		c.onUnauthenticated(ctx)
	}
}

// requireToken short-circuits calls that must never go out anonymously.
func (c *HTTPClient) requireToken(ctx context.Context) error {
	if _, ok := c.tokens.Token(ctx); ok {
		return nil
	}
	c.unauthenticated(ctx)
	return &APIError{Kind: KindUnauthenticated, Message: MsgNoToken}
}

// backendMessage prefers the JSON "message" field, then a plain-text body,
// then fallback.
func backendMessage(raw []byte, fallback string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fallback
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(trimmed, &payload) == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		}
		return fallback
	}

	var s string
	if json.Unmarshal(trimmed, &s) == nil && s != "" {
		return s
	}
	if trimmed[0] == '<' {
		return fallback
	}
	return string(trimmed)
}

// decodeBody decodes JSON into out. A *string target also accepts a plain
// text body, which the auth endpoints return.
func decodeBody(body io.Reader, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: MsgUnavailable, Err: errors.Join(ErrUnavailable, err)}
	}

	if s, ok := out.(*string); ok {
		if json.Unmarshal(raw, s) != nil {
			*s = string(bytes.TrimSpace(raw))
		}
		return nil
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Kind: KindBackend, Message: "Unexpected response from server.", Body: raw, Err: err}
	}
	return nil
}
