package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/stackguard/cache"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newLedgerTest(t *testing.T, cfg Config) (*Ledger, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewLedger(cache.NewRedisStore(rdb, time.Second), cfg), mr
}

func TestRevokeSetsRemainingLifetime(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	ledger, mr := newLedgerTest(t, Config{Now: clock.Now})
	ctx := context.Background()

	if err := ledger.Revoke(ctx, "tok", clock.now.Add(90*time.Second)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !ledger.IsRevoked(ctx, "tok") {
		t.Fatal("expected token revoked")
	}
	if ttl := mr.TTL("bl:tok"); ttl != 90*time.Second {
		t.Fatalf("expected 90s ttl, got %v", ttl)
	}

	mr.FastForward(91 * time.Second)
	if ledger.IsRevoked(ctx, "tok") {
		t.Fatal("marker must disappear at token expiry")
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	ledger, mr := newLedgerTest(t, Config{Now: clock.Now})
	ctx := context.Background()

	for _, exp := range []time.Time{clock.now, clock.now.Add(-time.Minute)} {
		if err := ledger.Revoke(ctx, "old", exp); err != nil {
			t.Fatalf("revoke expired: %v", err)
		}
	}
	if mr.Exists("bl:old") {
		t.Fatal("expired token must not be written")
	}
}

func TestRevokeIdempotent(t *testing.T) {
	ledger, _ := newLedgerTest(t, Config{})
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	for i := 0; i < 2; i++ {
		if err := ledger.Revoke(ctx, "tok", exp); err != nil {
			t.Fatalf("revoke #%d: %v", i+1, err)
		}
	}
	if !ledger.IsRevoked(ctx, "tok") {
		t.Fatal("expected token revoked")
	}
}

func TestIsRevokedFailsOpen(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	degraded := 0
	ledger, mr := newLedgerTest(t, Config{
		Logger:     zap.New(core),
		OnDegraded: func(string) { degraded++ },
	})

	if err := ledger.Revoke(context.Background(), "tok", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	mr.Close()

	if ledger.IsRevoked(context.Background(), "tok") {
		t.Fatal("unavailable store must fail open")
	}
	if degraded != 1 {
		t.Fatalf("expected one degraded callback, got %d", degraded)
	}
	if logs.FilterField(zap.String("op", "is_revoked")).Len() != 1 {
		t.Fatalf("expected one degraded warning, got %d", logs.Len())
	}
}
