package stackguard

import (
	"errors"

	"github.com/MrEthical07/stackguard/cache"
	"github.com/MrEthical07/stackguard/internal/limiters"
	"github.com/MrEthical07/stackguard/internal/rate"
	"github.com/MrEthical07/stackguard/jwt"
	"github.com/MrEthical07/stackguard/password"
	"github.com/MrEthical07/stackguard/permission"
	"github.com/MrEthical07/stackguard/revocation"
	"github.com/MrEthical07/stackguard/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ PasswordRehasher = (*password.Verifier)(nil)

// Builder assembles an [Engine]. A Builder is single use.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	cache  cache.Store

	credentials CredentialStore
	verifier    PasswordVerifier
	roles       map[permission.Role]permission.Mask64

	logger    *zap.Logger
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis backs the cache store with client. Ignored when [Builder.WithCache]
// is also used.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCache sets the cache store directly. Calls are still bounded by
// Config.Store.CacheTimeout.
func (b *Builder) WithCache(store cache.Store) *Builder {
	b.cache = store
	return b
}

func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.credentials = store
	return b
}

// WithPasswordVerifier overrides the default argon2id/bcrypt verifier.
func (b *Builder) WithPasswordVerifier(v PasswordVerifier) *Builder {
	b.verifier = v
	return b
}

// WithRolePermissions replaces [permission.DefaultRolePermissions].
func (b *Builder) WithRolePermissions(roles map[permission.Role]permission.Mask64) *Builder {
	b.roles = roles
	return b
}

func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and dependencies and returns a ready
// [Engine]. It performs no I/O.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.cache
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("cache store or redis client required")
		}
		store = cache.NewRedisStore(b.redis, cfg.Store.CacheTimeout)
	}
	store = cache.Bounded(store, cfg.Store.CacheTimeout)

	if b.credentials == nil {
		return nil, errors.New("credential store required")
	}

	verifier := b.verifier
	if verifier == nil {
		verifier = password.NewVerifier()
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sink := b.auditSink
	if sink == nil || !cfg.Audit.Enabled {
		sink = NoOpSink{}
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		AccessSecret:  cfg.Token.AccessSecret,
		RefreshSecret: cfg.Token.RefreshSecret,
		Now:           cfg.Now,
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:      cfg,
		tokens:      tokens,
		refresh:     session.NewRefreshStore(store, cfg.Session.RefreshKeyPrefix),
		policy:      permission.NewPolicy(b.roles),
		credentials: b.credentials,
		verifier:    verifier,
		audit:       sink,
		metrics:     NewMetrics(cfg.Metrics),
		log:         logger.With(zap.String("component", "stackguard")),
	}

	e.ledger = revocation.NewLedger(store, revocation.Config{
		Prefix:     cfg.Session.RevocationKeyPrefix,
		Logger:     logger,
		Now:        e.now,
		OnDegraded: e.onDegraded,
	})

	if cfg.RateLimit.Enabled {
		e.limiter = rate.New(store, rate.Config{
			MaxAttempts: cfg.RateLimit.MaxAttempts,
			Window:      cfg.RateLimit.Window,
			Prefix:      cfg.RateLimit.KeyPrefix,
			Logger:      logger,
			OnDegraded:  e.onDegraded,
		})
	}

	if cfg.Lockout.Enabled {
		e.lockout = limiters.Lockout{
			Threshold: cfg.Lockout.Threshold,
			Duration:  cfg.Lockout.Duration,
		}
	}

	b.built = true
	return e, nil
}
