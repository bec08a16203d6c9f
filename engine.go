package stackguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/stackguard/internal/limiters"
	"github.com/MrEthical07/stackguard/internal/rate"
	"github.com/MrEthical07/stackguard/jwt"
	"github.com/MrEthical07/stackguard/permission"
	"github.com/MrEthical07/stackguard/revocation"
	"github.com/MrEthical07/stackguard/session"
	"go.uber.org/zap"
)

// Engine is the session manager. It is the only component that mints or
// rotates credentials.
type Engine struct {
	config      Config
	tokens      *jwt.Manager
	refresh     *session.RefreshStore
	ledger      *revocation.Ledger
	limiter     *rate.Limiter
	lockout     limiters.Lockout
	policy      *permission.Policy
	credentials CredentialStore
	verifier    PasswordVerifier
	audit       AuditSink
	metrics     *Metrics
	log         *zap.Logger
}

func (e *Engine) ready() bool {
	return e != nil && e.tokens != nil && e.credentials != nil
}

func (e *Engine) now() time.Time {
	return e.config.now()
}

// MetricsSnapshot returns the current counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Policy returns the access policy the Require* methods delegate to.
func (e *Engine) Policy() *permission.Policy {
	if e == nil {
		return nil
	}
	return e.policy
}

// Login exchanges credentials for a token pair.
//
// Checks run in order: IP rate limit, identity lookup, account lock,
// password. A missing, inactive or wrong-password account all yield
// [ErrInvalidCredentials]. A locked account yields [ErrAccountLocked] even
// when the password is correct.
func (e *Engine) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	ip := clientIPFromContext(ctx)

	if err := e.limiter.CheckAndIncrement(ctx, ip); err != nil {
		e.metricInc(MetricLoginRateLimited)
		e.emit(ctx, auditComponentSession, auditActionLogin, "", ErrRateLimited)
		return nil, ErrRateLimited
	}

	identity, err := e.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, e.loginFailed(ctx, "", ErrInvalidCredentials)
		}
		return nil, e.loginFailed(ctx, "", err)
	}
	if !identity.IsActive {
		return nil, e.loginFailed(ctx, identity.ID, ErrInvalidCredentials)
	}

	now := e.now()
	if e.lockout.IsLocked(identity.lockState(), now) {
		e.metricInc(MetricLoginLocked)
		return nil, e.loginFailed(ctx, identity.ID, ErrAccountLocked)
	}

	ok, err := e.verifier.Verify(password, identity.PasswordHash)
	if err != nil {
		e.log.Warn("password hash unreadable",
			zap.String("subject_id", identity.ID),
			zap.Error(err),
		)
	}
	if !ok {
		e.recordFailure(ctx, identity, now)
		return nil, e.loginFailed(ctx, identity.ID, ErrInvalidCredentials)
	}

	dirty := false
	if identity.FailedLoginAttempts != 0 || identity.LockUntil != nil {
		state := identity.lockState()
		e.lockout.Reset(&state)
		identity.applyLockState(state)
		dirty = true
	}
	if e.upgradeHash(identity, password) {
		dirty = true
	}
	if dirty {
		if err := e.saveIdentity(ctx, identity); err != nil {
			e.degraded("credentials", "login_update", err)
		}
	}
	e.limiter.Clear(ctx, ip)

	pair, err := e.issuePair(ctx, identity)
	if err != nil {
		return nil, e.loginFailed(ctx, identity.ID, err)
	}

	e.metricInc(MetricLoginSuccess)
	e.emit(ctx, auditComponentSession, auditActionLogin, identity.ID, nil)
	return pair, nil
}

func (e *Engine) loginFailed(ctx context.Context, subjectID string, err error) error {
	e.metricInc(MetricLoginFailure)
	e.emit(ctx, auditComponentSession, auditActionLogin, subjectID, err)
	return err
}

// upgradeHash replaces an outdated hash after a successful verify. The
// password change timestamp is left alone so live sessions survive.
func (e *Engine) upgradeHash(identity *Identity, password string) bool {
	r, ok := e.verifier.(PasswordRehasher)
	if !ok || !r.NeedsUpgrade(identity.PasswordHash) {
		return false
	}
	hash, err := r.Hash(password)
	if err != nil {
		e.log.Warn("password rehash failed",
			zap.String("subject_id", identity.ID),
			zap.Error(err),
		)
		return false
	}
	identity.PasswordHash = hash
	return true
}

// recordFailure counts a wrong password against the account through the
// store's atomic update. The lock is logged and counted once per cycle, by
// the failure that reaches the threshold.
func (e *Engine) recordFailure(ctx context.Context, identity *Identity, now time.Time) {
	if e.lockout.Threshold <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Store.CredentialTimeout)
	defer cancel()

	attempts, lockUntil, err := e.credentials.RecordLoginFailure(ctx, identity.ID, LoginFailure{
		At:        now,
		Threshold: e.lockout.Threshold,
		LockFor:   e.lockout.Duration,
	})
	if err != nil {
		e.degraded("credentials", "record_failure", err)
		return
	}
	identity.FailedLoginAttempts = attempts
	identity.LockUntil = lockUntil

	if attempts == e.lockout.Threshold && lockUntil != nil {
		e.metricInc(MetricAccountLocked)
		e.log.Info("account locked",
			zap.String("subject_id", identity.ID),
			zap.Int("failed_attempts", attempts),
			zap.Time("lock_until", *lockUntil),
		)
	}
}

// Authenticate resolves an access token to a live session.
//
// Checks run in order: signature and expiry, revocation, identity still
// present and active, password unchanged since issue, account not locked.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (*Session, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
	}()

	claims, err := e.tokens.Verify(accessToken, jwt.KindAccess)
	if err != nil {
		return nil, e.authenticateFailed(ctx, "", tokenError(err))
	}

	if e.ledger.IsRevoked(ctx, accessToken) {
		e.metricInc(MetricAuthenticateRevoked)
		return nil, e.authenticateFailed(ctx, claims.SubjectID, ErrRevoked)
	}

	identity, err := e.liveIdentity(ctx, claims)
	if err != nil {
		return nil, e.authenticateFailed(ctx, claims.SubjectID, err)
	}

	e.metricInc(MetricAuthenticateSuccess)
	e.emit(ctx, auditComponentSession, auditActionAuthenticate, identity.ID, nil)
	return &Session{
		Identity: identity,
		Token:    accessToken,
		Claims:   claims,
	}, nil
}

func (e *Engine) authenticateFailed(ctx context.Context, subjectID string, err error) error {
	e.metricInc(MetricAuthenticateFailure)
	e.emit(ctx, auditComponentSession, auditActionAuthenticate, subjectID, err)
	return err
}

// liveIdentity loads the token's subject and applies the checks shared by
// Authenticate and Refresh.
func (e *Engine) liveIdentity(ctx context.Context, claims *jwt.Claims) (*Identity, error) {
	identity, err := e.findByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrUserGone
		}
		return nil, err
	}
	if !identity.IsActive {
		return nil, ErrUserGone
	}
	if !identity.PasswordChangedAt.IsZero() && identity.PasswordChangedAt.Unix() > claims.IssuedAt.Unix() {
		return nil, ErrStalePassword
	}
	if e.lockout.IsLocked(identity.lockState(), e.now()) {
		return nil, ErrAccountLocked
	}
	return identity, nil
}

// Refresh rotates a refresh token into a new pair.
//
// The stored record is consumed atomically, so of two concurrent calls with
// the same token exactly one succeeds. A superseded or already-used token,
// and any cache outage, yield [ErrInvalidRefreshToken]. Earlier access
// tokens stay valid until they expire or are logged out.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Verify(refreshToken, jwt.KindRefresh)
	if err != nil {
		return nil, e.refreshFailed(ctx, "", tokenError(err))
	}

	if err := e.refresh.Consume(ctx, claims.SubjectID, refreshToken); err != nil {
		switch {
		case errors.Is(err, session.ErrRefreshMismatch):
			e.metricInc(MetricRefreshReplay)
		case errors.Is(err, session.ErrRefreshNotFound):
		default:
			e.degraded("session", "consume_refresh", err)
		}
		return nil, e.refreshFailed(ctx, claims.SubjectID, ErrInvalidRefreshToken)
	}

	identity, err := e.liveIdentity(ctx, claims)
	if err != nil {
		return nil, e.refreshFailed(ctx, claims.SubjectID, err)
	}

	pair, err := e.issuePair(ctx, identity)
	if err != nil {
		return nil, e.refreshFailed(ctx, identity.ID, err)
	}

	e.metricInc(MetricRefreshSuccess)
	e.emit(ctx, auditComponentSession, auditActionRefresh, identity.ID, nil)
	return pair, nil
}

func (e *Engine) refreshFailed(ctx context.Context, subjectID string, err error) error {
	e.metricInc(MetricRefreshFailure)
	e.emit(ctx, auditComponentSession, auditActionRefresh, subjectID, err)
	return err
}

// Logout revokes accessToken for the rest of its lifetime and deletes the
// subject's refresh record. The subject is taken from identity when given,
// otherwise from the token.
//
// Logout is idempotent and never fails: an expired or malformed token is
// simply not revoked, and cache outages are logged.
func (e *Engine) Logout(ctx context.Context, accessToken string, identity *Identity) {
	if !e.ready() {
		return
	}

	var subjectID string
	if identity != nil {
		subjectID = identity.ID
	}

	claims, err := e.tokens.Verify(accessToken, jwt.KindAccess)
	switch {
	case err == nil:
		if err := e.ledger.Revoke(ctx, accessToken, claims.ExpiresAt); err != nil {
			e.degraded("revocation", "revoke", err)
		}
	case errors.Is(err, jwt.ErrTokenExpired):
	default:
		claims = nil
	}
	if subjectID == "" && claims != nil {
		subjectID = claims.SubjectID
	}

	if subjectID != "" {
		if err := e.refresh.Delete(ctx, subjectID); err != nil {
			e.degraded("session", "delete_refresh", err)
		}
	}

	e.metricInc(MetricLogout)
	e.emit(ctx, auditComponentSession, auditActionLogout, subjectID, nil)
}

// issuePair mints both tokens and stores the refresh record, replacing any
// earlier one. A failed store write is logged; the caller still gets the
// pair, and the refresh token will be rejected when used.
func (e *Engine) issuePair(ctx context.Context, identity *Identity) (*TokenPair, error) {
	access, accessClaims, err := e.tokens.IssueAccess(identity.ID, identity.Email, string(identity.Role))
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, refreshClaims, err := e.tokens.IssueRefresh(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	rec := &session.Record{
		Token:     refresh,
		SubjectID: identity.ID,
		CreatedAt: refreshClaims.IssuedAt.Unix(),
	}
	if err := e.refresh.Save(ctx, rec, e.tokens.RefreshTTL()); err != nil {
		e.degraded("session", "save_refresh", err)
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessClaims.ExpiresAt,
		RefreshExpiresAt: refreshClaims.ExpiresAt,
	}, nil
}

// RequireRole fails with [ErrForbidden] unless identity has one of roles.
func (e *Engine) RequireRole(ctx context.Context, identity *Identity, roles ...permission.Role) error {
	return e.authorize(ctx, identity, func(p *permission.Policy, s permission.Subject) error {
		return p.RequireRole(s, roles...)
	})
}

// RequirePermission fails with [ErrForbidden] unless identity's role grants perm.
func (e *Engine) RequirePermission(ctx context.Context, identity *Identity, perm permission.Permission) error {
	return e.authorize(ctx, identity, func(p *permission.Policy, s permission.Subject) error {
		return p.RequirePermission(s, perm)
	})
}

// RequireTeamMembership fails with [ErrForbidden] unless identity belongs to
// teamID or is an admin.
func (e *Engine) RequireTeamMembership(ctx context.Context, identity *Identity, teamID string) error {
	return e.authorize(ctx, identity, func(p *permission.Policy, s permission.Subject) error {
		return p.RequireTeamMembership(s, teamID)
	})
}

// RequireOwnership fails with [ErrForbidden] unless identity is ownerID or
// is an admin.
func (e *Engine) RequireOwnership(ctx context.Context, identity *Identity, ownerID string) error {
	return e.authorize(ctx, identity, func(p *permission.Policy, s permission.Subject) error {
		return p.RequireOwnership(s, ownerID)
	})
}

func (e *Engine) authorize(ctx context.Context, identity *Identity, check func(*permission.Policy, permission.Subject) error) error {
	if !e.ready() || e.policy == nil {
		return ErrEngineNotReady
	}

	err := check(e.policy, identity.subject())
	if err == nil {
		return nil
	}

	var subjectID string
	if identity != nil {
		subjectID = identity.ID
	}
	e.metricInc(MetricAuthorizeDenied)
	e.emit(ctx, auditComponentPolicy, auditActionAuthorize, subjectID, err)
	return err
}

func (e *Engine) findByEmail(ctx context.Context, email string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Store.CredentialTimeout)
	defer cancel()

	identity, err := e.credentials.FindByEmail(ctx, email)
	return checkedIdentity(identity, err)
}

func (e *Engine) findByID(ctx context.Context, id string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Store.CredentialTimeout)
	defer cancel()

	identity, err := e.credentials.FindByID(ctx, id)
	return checkedIdentity(identity, err)
}

func checkedIdentity(identity *Identity, err error) (*Identity, error) {
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrCredentialStoreUnavailable, err)
	}
	if identity == nil {
		return nil, ErrIdentityNotFound
	}
	return identity, nil
}

func (e *Engine) saveIdentity(ctx context.Context, identity *Identity) error {
	ctx, cancel := context.WithTimeout(ctx, e.config.Store.CredentialTimeout)
	defer cancel()

	return e.credentials.Save(ctx, identity)
}

func tokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrTokenMalformed
}

func (e *Engine) degraded(component, op string, err error) {
	e.log.Warn("degraded mode",
		zap.String("component", component),
		zap.String("op", op),
		zap.Error(err),
	)
	e.onDegraded(op)
}

func (e *Engine) onDegraded(string) {
	e.metricInc(MetricDegraded)
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emit(ctx context.Context, component, action, subjectID string, err error) {
	if e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: e.now(),
		Component: component,
		Action:    action,
		Success:   err == nil,
		SubjectID: subjectID,
		IP:        clientIPFromContext(ctx),
	}
	if err != nil {
		event.Error = err.Error()
	}
	e.audit.Emit(ctx, event)
}
