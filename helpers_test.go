package stackguard

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/stackguard/permission"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessSecret  = "access-secret-access-secret-0001"
	testRefreshSecret = "refresh-secret-refresh-secret-01"
	testPassword      = "correct-horse-battery"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// memCredentials stores copies so the engine cannot mutate state without Save.
type memCredentials struct {
	mu    sync.Mutex
	users map[string]Identity
	saves int
	// delay holds FindByEmail after the read so concurrent logins observe
	// the same snapshot.
	delay time.Duration
}

func newMemCredentials() *memCredentials {
	return &memCredentials{users: map[string]Identity{}}
}

func (m *memCredentials) put(id Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id.ID] = id
}

func (m *memCredentials) get(id string) Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

func (m *memCredentials) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memCredentials) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *memCredentials) FindByEmail(_ context.Context, email string) (*Identity, error) {
	m.mu.Lock()
	delay := m.delay
	var found *Identity
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			found = &cp
			break
		}
	}
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if found == nil {
		return nil, ErrIdentityNotFound
	}
	return found, nil
}

func (m *memCredentials) FindByID(_ context.Context, id string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	return &u, nil
}

func (m *memCredentials) Save(_ context.Context, identity *Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.users[identity.ID] = *identity
	return nil
}

func (m *memCredentials) RecordLoginFailure(_ context.Context, id string, f LoginFailure) (int, *time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, nil, ErrIdentityNotFound
	}
	f.Apply(&u)
	m.users[id] = u
	return u.FailedLoginAttempts, u.LockUntil, nil
}

type harness struct {
	engine *Engine
	creds  *memCredentials
	mr     *miniredis.Miniredis
	clock  *testClock
	audit  *ChannelSink
	logs   *observer.ObservedLogs
}

func bcryptHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func testConfig(clock *testClock) Config {
	cfg := DefaultConfig()
	cfg.Token.AccessSecret = []byte(testAccessSecret)
	cfg.Token.RefreshSecret = []byte(testRefreshSecret)
	cfg.Now = clock.Now
	return cfg
}

func newHarness(t *testing.T, mutate func(*Config)) *harness {
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

	clock := newTestClock()
	cfg := testConfig(clock)
	if mutate != nil {
		mutate(&cfg)
	}

	creds := newMemCredentials()
	creds.put(Identity{
		ID:           "u-1",
		Email:        "ada@example.com",
		PasswordHash: bcryptHash(t, testPassword),
		Role:         permission.RoleMember,
		TeamIDs:      []string{"team-a"},
		IsActive:     true,
	})

	core, logs := observer.New(zap.WarnLevel)
	sink := NewChannelSink(1024)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithCredentialStore(creds).
		WithLogger(zap.New(core)).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	return &harness{
		engine: engine,
		creds:  creds,
		mr:     mr,
		clock:  clock,
		audit:  sink,
		logs:   logs,
	}
}

func (h *harness) login(t *testing.T) *TokenPair {
	t.Helper()
	pair, err := h.engine.Login(context.Background(), "ada@example.com", testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return pair
}

func (h *harness) drainAudit() []AuditEvent {
	var out []AuditEvent
	for {
		select {
		case e := <-h.audit.Events():
			out = append(out, e)
		default:
			return out
		}
	}
}
