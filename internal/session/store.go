package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get for missing or expired keys.
var ErrNotFound = errors.New("session: key not found")

// Store is an expiring key-value store holding session state. Values are
// opaque bytes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr increments a counter, starting its TTL when it is created, and
	// returns the new value.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Close() error
}
