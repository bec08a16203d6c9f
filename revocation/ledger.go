package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/stackguard/cache"
	"go.uber.org/zap"
)

// DefaultPrefix is the key namespace for revocation markers.
const DefaultPrefix = "bl"

const revokedMarker = "1"

// Config configures a [Ledger].
type Config struct {
	Prefix string
	Logger *zap.Logger
	Now    func() time.Time

	// OnDegraded is called whenever a store failure is absorbed by the
	// fail-open policy. Optional.
	OnDegraded func(op string)
}

// Ledger answers whether an exact token has been revoked.
type Ledger struct {
	store      cache.Store
	prefix     string
	logger     *zap.Logger
	now        func() time.Time
	onDegraded func(op string)
}

// NewLedger creates a [Ledger] over store.
func NewLedger(store cache.Store, cfg Config) *Ledger {
	l := &Ledger{
		store:      store,
		prefix:     cfg.Prefix,
		logger:     cfg.Logger,
		now:        cfg.Now,
		onDegraded: cfg.OnDegraded,
	}
	if l.prefix == "" {
		l.prefix = DefaultPrefix
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

func (l *Ledger) key(token string) string {
	return l.prefix + ":" + token
}

// Revoke marks token as revoked until expiresAt. A token whose expiry has
// already passed is left alone.
func (l *Ledger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	return l.store.Set(ctx, l.key(token), revokedMarker, ttl)
}

// IsRevoked reports whether token carries a revocation marker. It never
// returns an error; an unreachable store yields false.
func (l *Ledger) IsRevoked(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	_, err := l.store.Get(ctx, l.key(token))
	if err == nil {
		return true
	}
	if errors.Is(err, cache.ErrNotFound) {
		return false
	}

	l.logger.Warn("revocation check degraded, allowing token",
		zap.String("component", "revocation"),
		zap.String("op", "is_revoked"),
		zap.Error(err),
	)
	if l.onDegraded != nil {
		l.onDegraded("is_revoked")
	}
	return false
}
