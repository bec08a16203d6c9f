package stackguard

import (
	"context"
	"time"

	"github.com/MrEthical07/stackguard/internal/limiters"
	"github.com/MrEthical07/stackguard/jwt"
	"github.com/MrEthical07/stackguard/permission"
)

// Identity is an account as held by the credential store.
type Identity struct {
	ID                  string
	Email               string
	PasswordHash        string
	Role                permission.Role
	TeamIDs             []string
	IsActive            bool
	PasswordChangedAt   time.Time
	FailedLoginAttempts int
	LockUntil           *time.Time
}

func (i *Identity) subject() permission.Subject {
	if i == nil {
		return permission.Subject{}
	}
	return permission.Subject{
		ID:      i.ID,
		Role:    i.Role,
		TeamIDs: i.TeamIDs,
		Active:  i.IsActive,
	}
}

func (i *Identity) lockState() limiters.State {
	return limiters.State{
		FailedAttempts: i.FailedLoginAttempts,
		LockUntil:      i.LockUntil,
	}
}

func (i *Identity) applyLockState(s limiters.State) {
	i.FailedLoginAttempts = s.FailedAttempts
	i.LockUntil = s.LockUntil
}

// LoginFailure is one wrong-password attempt to be counted against an
// account.
type LoginFailure struct {
	At        time.Time
	Threshold int
	LockFor   time.Duration
}

// Apply counts f on identity and reports whether the account is now
// locked. A lock that has already expired at f.At is cleared first, so
// counting restarts at 1. Stores without an atomic update primitive call
// Apply on the stored record while holding their own lock.
func (f LoginFailure) Apply(identity *Identity) bool {
	if identity == nil {
		return false
	}
	state := identity.lockState()
	locked := limiters.Lockout{Threshold: f.Threshold, Duration: f.LockFor}.RecordFailure(&state, f.At)
	identity.applyLockState(state)
	return locked
}

// CredentialStore is the narrow view of the user table the engine needs.
//
// Lookups return [ErrIdentityNotFound] for missing identities. Save must
// persist FailedLoginAttempts, LockUntil and PasswordChangedAt atomically
// with any other field changes.
//
// RecordLoginFailure must be a single read-modify-write on the stored
// record: concurrent failures against one account each count exactly once.
// It returns the stored counter and lock deadline after the update.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	Save(ctx context.Context, identity *Identity) error
	RecordLoginFailure(ctx context.Context, id string, f LoginFailure) (attempts int, lockUntil *time.Time, err error)
}

// PasswordVerifier compares a plaintext password with a stored hash in
// constant time. A mismatch is (false, nil).
type PasswordVerifier interface {
	Verify(password, encodedHash string) (bool, error)
}

// PasswordRehasher is implemented by verifiers that can replace outdated
// hashes. Login rewrites such a hash after a successful verify.
type PasswordRehasher interface {
	NeedsUpgrade(encodedHash string) bool
	Hash(password string) (string, error)
}

// TokenPair is the result of a login or refresh.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// Session is an authenticated request principal. Token is the raw access
// token, kept so the request can log out.
type Session struct {
	Identity *Identity
	Token    string
	Claims   *jwt.Claims
}
