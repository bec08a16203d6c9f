package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type boundedStore struct {
	inner   Store
	timeout time.Duration
}

// Bounded wraps store so every call runs under its own deadline. A call
// that outlives the deadline reports [ErrUnavailable].
func Bounded(store Store, timeout time.Duration) Store {
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}
	if b, ok := store.(*boundedStore); ok && b.timeout <= timeout {
		return b
	}
	return &boundedStore{inner: store, timeout: timeout}
}

func (s *boundedStore) run(ctx context.Context, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (s *boundedStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		v, err = s.inner.Get(ctx, key)
		return err
	})
	return v, err
}

func (s *boundedStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.run(ctx, func(ctx context.Context) error {
		return s.inner.Set(ctx, key, value, ttl)
	})
}

func (s *boundedStore) Delete(ctx context.Context, key string) error {
	return s.run(ctx, func(ctx context.Context) error {
		return s.inner.Delete(ctx, key)
	})
}

func (s *boundedStore) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	var ok bool
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		ok, err = s.inner.CompareAndDelete(ctx, key, expected)
		return err
	})
	return ok, err
}

func (s *boundedStore) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	var n int64
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.inner.IncrWindow(ctx, key, window)
		return err
	})
	return n, err
}
