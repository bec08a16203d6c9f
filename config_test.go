package stackguard

import (
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.AccessSecret = []byte(testAccessSecret)
	cfg.Token.RefreshSecret = []byte(testRefreshSecret)
	return cfg
}

func TestDefaultConfigValuesAndValidation(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Token.AccessTTL != 24*time.Hour || cfg.Token.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected token lifetimes %+v", cfg.Token)
	}
	if cfg.RateLimit.MaxAttempts != 10 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("unexpected rate limit %+v", cfg.RateLimit)
	}
	if cfg.Lockout.Threshold != 5 || cfg.Lockout.Duration != 2*time.Hour {
		t.Fatalf("unexpected lockout %+v", cfg.Lockout)
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("default config without secrets must not validate")
	}
	valid := validConfig()
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"access ttl", func(c *Config) { c.Token.AccessTTL = 0 }, "AccessTTL"},
		{"refresh ttl", func(c *Config) { c.Token.RefreshTTL = c.Token.AccessTTL }, "RefreshTTL"},
		{"short access secret", func(c *Config) { c.Token.AccessSecret = []byte("short") }, "AccessSecret"},
		{"short refresh secret", func(c *Config) { c.Token.RefreshSecret = nil }, "RefreshSecret"},
		{"equal secrets", func(c *Config) { c.Token.RefreshSecret = c.Token.AccessSecret }, "must differ"},
		{"empty prefix", func(c *Config) { c.Session.RefreshKeyPrefix = "" }, "must not be empty"},
		{"shared prefix", func(c *Config) { c.RateLimit.KeyPrefix = c.Session.RevocationKeyPrefix }, "share prefix"},
		{"rate attempts", func(c *Config) { c.RateLimit.MaxAttempts = 0 }, "MaxAttempts"},
		{"rate window", func(c *Config) { c.RateLimit.Window = 0 }, "Window"},
		{"lockout threshold", func(c *Config) { c.Lockout.Threshold = 0 }, "Threshold"},
		{"lockout duration", func(c *Config) { c.Lockout.Duration = -time.Second }, "Duration"},
		{"cache timeout", func(c *Config) { c.Store.CacheTimeout = 0 }, "CacheTimeout"},
		{"credential timeout", func(c *Config) { c.Store.CredentialTimeout = 0 }, "CredentialTimeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDisabledGuardsSkipTheirLimits(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit = RateLimitConfig{KeyPrefix: "rl"}
	cfg.Lockout = LockoutConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled guards must not need limits: %v", err)
	}
}

func TestWithConfigCopiesSecrets(t *testing.T) {
	cfg := validConfig()
	b := New().WithConfig(cfg)
	cfg.Token.AccessSecret[0] = 'X'

	if b.config.Token.AccessSecret[0] == 'X' {
		t.Fatal("builder must not alias caller secrets")
	}
}

func TestBuildRequiresDependencies(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	if _, err := New().WithConfig(validConfig()).WithCredentialStore(newMemCredentials()).Build(); err == nil {
		t.Fatal("expected missing cache error")
	}
	if _, err := New().WithConfig(validConfig()).WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected missing credential store error")
	}
	if _, err := New().WithRedis(rdb).WithCredentialStore(newMemCredentials()).Build(); err == nil {
		t.Fatal("expected config validation error")
	}

	b := New().WithConfig(validConfig()).WithRedis(rdb).WithCredentialStore(newMemCredentials())
	if _, err := b.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected single-use builder error")
	}
}
