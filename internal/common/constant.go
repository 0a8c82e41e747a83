// Package common contains constants shared by the API client and the
// fixture backend that impersonates the server in tests.
package common

// HTTP header names used on every API request.
const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
	AcceptHeader        = "Accept"
	ContentTypeHeader   = "Content-Type"
)

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "
