package rate

import (
	"context"
	"time"

	"github.com/MrEthical07/stackguard/cache"
	"go.uber.org/zap"
)

// DefaultPrefix is the key namespace for IP counters.
const DefaultPrefix = "rl"

// Config holds rate limiter tuning parameters.
type Config struct {
	MaxAttempts int
	Window      time.Duration
	Prefix      string
	Logger      *zap.Logger

	// OnDegraded is called when a store failure is absorbed. Optional.
	OnDegraded func(op string)
}

// Limiter enforces the per-IP attempt ceiling using fixed-window counters.
type Limiter struct {
	store  cache.Store
	config Config
}

// New creates a rate [Limiter] backed by store.
func New(store cache.Store, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Limiter{
		store:  store,
		config: cfg,
	}
}

func (l *Limiter) key(ip string) string {
	return l.config.Prefix + ":" + ip
}

// CheckAndIncrement counts the attempt and denies with [ErrRateLimited]
// once the window's counter exceeds the ceiling. The count comes from one
// atomic increment, so concurrent attempts cannot share a stale reading.
// An empty ip is never limited.
func (l *Limiter) CheckAndIncrement(ctx context.Context, ip string) error {
	if l == nil || ip == "" || l.config.MaxAttempts <= 0 {
		return nil
	}

	count, err := l.store.IncrWindow(ctx, l.key(ip), l.config.Window)
	if err != nil {
		l.degraded("increment", err)
		return nil
	}
	if count > int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

// Clear deletes the counter for ip. Called after a successful login.
func (l *Limiter) Clear(ctx context.Context, ip string) {
	if l == nil || ip == "" {
		return
	}
	if err := l.store.Delete(ctx, l.key(ip)); err != nil {
		l.degraded("clear", err)
	}
}

func (l *Limiter) degraded(op string, err error) {
	l.config.Logger.Warn("rate limit degraded, allowing attempt",
		zap.String("component", "rate_limit"),
		zap.String("op", op),
		zap.Error(err),
	)
	if l.config.OnDegraded != nil {
		l.config.OnDegraded(op)
	}
}
