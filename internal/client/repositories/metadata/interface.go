// Package metadata is the key/value store for client state that must
// survive restarts: the bearer token and the time it was issued to us.
package metadata

import (
	"context"
)

// Repository is a byte-valued key/value store. Get on a missing key returns
// (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
