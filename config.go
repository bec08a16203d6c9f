package stackguard

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/stackguard/internal/rate"
	"github.com/MrEthical07/stackguard/revocation"
	"github.com/MrEthical07/stackguard/session"
)

const minSecretLength = 32

// Config is the engine configuration. Start from [DefaultConfig] and set
// at least the two token secrets.
type Config struct {
	Token     TokenConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Lockout   LockoutConfig
	Store     StoreConfig
	Audit     AuditConfig
	Metrics   MetricsConfig

	// Now overrides the clock for every component; nil means time.Now.
	Now func() time.Time
}

// TokenConfig holds signing secrets and lifetimes. The two secrets must
// differ so an access-token key cannot forge refresh tokens.
type TokenConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AccessSecret  []byte
	RefreshSecret []byte
}

// SessionConfig holds cache key namespaces owned by the session manager and
// the revocation ledger.
type SessionConfig struct {
	RefreshKeyPrefix    string
	RevocationKeyPrefix string
}

// RateLimitConfig configures the per-IP login limiter.
type RateLimitConfig struct {
	Enabled     bool
	MaxAttempts int
	Window      time.Duration
	KeyPrefix   string
}

// LockoutConfig configures per-account lockout.
type LockoutConfig struct {
	Enabled   bool
	Threshold int
	Duration  time.Duration
}

// StoreConfig bounds every collaborator round-trip.
type StoreConfig struct {
	CacheTimeout      time.Duration
	CredentialTimeout time.Duration
}

// AuditConfig toggles audit emission.
type AuditConfig struct {
	Enabled bool
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the production defaults without secrets.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  24 * time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Session: SessionConfig{
			RefreshKeyPrefix:    session.DefaultPrefix,
			RevocationKeyPrefix: revocation.DefaultPrefix,
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			MaxAttempts: 10,
			Window:      15 * time.Minute,
			KeyPrefix:   rate.DefaultPrefix,
		},
		Lockout: LockoutConfig{
			Enabled:   true,
			Threshold: 5,
			Duration:  2 * time.Hour,
		},
		Store: StoreConfig{
			CacheTimeout:      250 * time.Millisecond,
			CredentialTimeout: 2 * time.Second,
		},
		Audit: AuditConfig{
			Enabled: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.AccessSecret = cloneBytes(cfg.Token.AccessSecret)
	out.Token.RefreshSecret = cloneBytes(cfg.Token.RefreshSecret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	// Token
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token AccessTTL must be > 0")
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("Token RefreshTTL must be > AccessTTL")
	}
	if len(c.Token.AccessSecret) < minSecretLength {
		return fmt.Errorf("Token AccessSecret must be >= %d bytes", minSecretLength)
	}
	if len(c.Token.RefreshSecret) < minSecretLength {
		return fmt.Errorf("Token RefreshSecret must be >= %d bytes", minSecretLength)
	}
	if bytes.Equal(c.Token.AccessSecret, c.Token.RefreshSecret) {
		return errors.New("Token AccessSecret and RefreshSecret must differ")
	}

	// Key namespaces
	prefixes := map[string]string{}
	for name, p := range map[string]string{
		"Session RefreshKeyPrefix":    c.Session.RefreshKeyPrefix,
		"Session RevocationKeyPrefix": c.Session.RevocationKeyPrefix,
		"RateLimit KeyPrefix":         c.RateLimit.KeyPrefix,
	} {
		if p == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		if other, dup := prefixes[p]; dup {
			return fmt.Errorf("%s and %s share prefix %q", name, other, p)
		}
		prefixes[p] = name
	}

	// Brute-force guard
	if c.RateLimit.Enabled {
		if c.RateLimit.MaxAttempts <= 0 {
			return errors.New("RateLimit MaxAttempts must be > 0")
		}
		if c.RateLimit.Window <= 0 {
			return errors.New("RateLimit Window must be > 0")
		}
	}
	if c.Lockout.Enabled {
		if c.Lockout.Threshold <= 0 {
			return errors.New("Lockout Threshold must be > 0")
		}
		if c.Lockout.Duration <= 0 {
			return errors.New("Lockout Duration must be > 0")
		}
	}

	// Store
	if c.Store.CacheTimeout <= 0 {
		return errors.New("Store CacheTimeout must be > 0")
	}
	if c.Store.CredentialTimeout <= 0 {
		return errors.New("Store CredentialTimeout must be > 0")
	}

	return nil
}
