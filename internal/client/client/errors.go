package client

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidStatus   = errors.New("invalid status")
)

// Kind classifies a failed call for the caller: redirect, inline message or
// retry.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindBackend
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindBackend:
		return "backend"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	MsgSessionExpired = "Session expired. Please log in again."
	MsgForbidden      = "You are not authorized to access this resource."
	MsgNotFound       = "Resource not found."
	MsgUnavailable    = "Cannot connect to the server. Please ensure the backend is running."
	MsgNoToken        = "No authentication token found"
)

// APIError is the single failure shape returned by Client methods.
// Body holds the raw backend error body, if any.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Body    []byte
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to e.Kind.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindNetwork
	case ErrUnauthenticated:
		return e.Kind == KindUnauthenticated
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

// ValidationError builds a local, pre-network failure.
func ValidationError(msg string, err error) *APIError {
	if err == nil {
		err = ErrValidation
	}
	return &APIError{Kind: KindValidation, Message: msg, Err: err}
}

// AsAPIError normalizes any error into an *APIError. Errors that are not
// already classified become KindBackend with the fallback message, except
// context errors which count as network failures.
func AsAPIError(err error, fallback string) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindNetwork, Message: MsgUnavailable, Err: errors.Join(ErrUnavailable, err)}
	}
	msg := fallback
	if msg == "" {
		msg = err.Error()
	}
	return &APIError{Kind: KindBackend, Message: msg, Err: err}
}
