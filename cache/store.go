package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key does not exist or has expired.
	ErrNotFound = errors.New("cache key not found")
	// ErrUnavailable is returned when the backing store cannot be reached
	// or the call exceeded its deadline.
	ErrUnavailable = errors.New("cache unavailable")
)

// Store is the narrow key-value contract the auth core runs on. All values
// are small serialized records; keys are plain strings.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// CompareAndDelete removes key only when its current value equals
	// expected. It reports whether the delete happened. The check and the
	// delete are a single atomic step.
	CompareAndDelete(ctx context.Context, key, expected string) (bool, error)

	// IncrWindow increments a counter and starts its fixed window TTL on the
	// first hit, in one atomic step. It returns the post-increment value.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}
