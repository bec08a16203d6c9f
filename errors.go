package stackguard

import (
	"errors"

	"github.com/MrEthical07/stackguard/cache"
	"github.com/MrEthical07/stackguard/internal/rate"
	"github.com/MrEthical07/stackguard/jwt"
	"github.com/MrEthical07/stackguard/permission"
)

var (
	// ErrInvalidCredentials covers unknown email, inactive account and wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is returned while an account's lock deadline is in
	// the future.
	ErrAccountLocked = errors.New("account locked")
	// ErrRateLimited is returned when the client IP exhausted its login budget.
	ErrRateLimited = rate.ErrRateLimited
	// ErrTokenMalformed is returned for tokens that fail structural or
	// signature checks.
	ErrTokenMalformed = jwt.ErrTokenMalformed
	// ErrTokenExpired is returned once a token's expiry has passed.
	ErrTokenExpired = jwt.ErrTokenExpired
	// ErrRevoked is returned for access tokens present in the revocation ledger.
	ErrRevoked = errors.New("token revoked")
	// ErrUserGone is returned when a token's subject is missing or inactive.
	ErrUserGone = errors.New("user no longer active")
	// ErrStalePassword is returned when the password changed after the token
	// was issued.
	ErrStalePassword = errors.New("password changed since token was issued")
	// ErrInvalidRefreshToken is returned when the presented refresh token is
	// not the subject's active one.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrForbidden is returned by every authorization guard.
	ErrForbidden = permission.ErrForbidden
	// ErrStoreUnavailable marks cache outages. Engine methods absorb it.
	ErrStoreUnavailable = cache.ErrUnavailable

	// ErrIdentityNotFound must be returned by a CredentialStore lookup that
	// finds no identity.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrCredentialStoreUnavailable wraps credential store failures other
	// than a missing identity.
	ErrCredentialStoreUnavailable = errors.New("credential store unavailable")
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt
	// Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
