package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultOpTimeout bounds a single Redis round-trip when no timeout is given.
const DefaultOpTimeout = 250 * time.Millisecond

const compareAndDeleteScript = `
local current = redis.call("GET", KEYS[1])
if not current then
  return 0
end
if current ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`

var compareAndDeleteLua = redis.NewScript(compareAndDeleteScript)

// A key left without a TTL (PTTL -1) gets one on the next hit, so a counter
// can never outlive its window indefinitely.
const incrWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("PTTL", KEYS[1]) == -1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`

var incrWindowLua = redis.NewScript(incrWindowScript)

// RedisStore is a [Store] backed by Redis. Each call runs under its own
// deadline derived from the caller's context.
type RedisStore struct {
	redis   redis.UniversalClient
	timeout time.Duration
}

// NewRedisStore creates a [RedisStore]. A non-positive timeout selects
// [DefaultOpTimeout].
func NewRedisStore(client redis.UniversalClient, timeout time.Duration) *RedisStore {
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}
	return &RedisStore{
		redis:   client,
		timeout: timeout,
	}
}

func (s *RedisStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Get returns the value stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	value, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

// Set writes value under key with the given TTL. A non-positive TTL is
// rejected: nothing in this store lives forever.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("cache: ttl must be positive")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// CompareAndDelete runs the compare and the delete inside one Lua script so
// concurrent callers presenting the same expected value see exactly one
// winner.
func (s *RedisStore) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	deleted, err := compareAndDeleteLua.Run(ctx, s.redis, []string{key}, expected).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return deleted == 1, nil
}

// IncrWindow increments key and applies window as TTL on the first hit.
// The increment and the expiry run in one script.
func (s *RedisStore) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	count, err := incrWindowLua.Run(ctx, s.redis, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

var _ Store = (*RedisStore)(nil)
