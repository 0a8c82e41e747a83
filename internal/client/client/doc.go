// Package client talks to the NayiDisha REST backend.
//
// # Overview
//
// Client is the transport-agnostic contract; HTTPClient implements it over
// net/http. Every request passes through one pipeline that attaches the
// bearer token from the TokenStore, tags the request with an X-Request-ID,
// retries idempotent GETs on transport failure and classifies the response.
//
// # Error Handling
//
// Every failure is an *APIError whose Kind tells the caller what to do:
//
//	401            KindUnauthenticated  token cleared, OnUnauthenticated fired
//	403            KindForbidden        "not permitted" message, no redirect
//	404            KindNotFound
//	other non-2xx  KindBackend          backend message or per-call fallback
//	transport      KindNetwork          wraps ErrUnavailable
//	local checks   KindValidation       no request is sent
//
// APIError matches the sentinels with errors.Is: ErrUnauthenticated,
// ErrForbidden, ErrNotFound, ErrUnavailable, ErrValidation, and
// ErrInvalidStatus for rejected status transitions.
package client
