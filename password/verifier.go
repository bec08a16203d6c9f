package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordBytes is the shortest password either hasher accepts.
const MinPasswordBytes = 10

var (
	// ErrMalformedHash is returned when a stored hash cannot be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrUnsupportedHash is returned for hashes of an unknown scheme.
	ErrUnsupportedHash = errors.New("unsupported password hash scheme")
	// ErrPasswordTooShort is returned by Hash for short input.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrPasswordTooLong is returned when input exceeds the configured cap.
	ErrPasswordTooLong = errors.New("password too long")
)

// Verifier checks a plaintext password against a stored hash of either
// scheme the credential store may hold: argon2id PHC strings or bcrypt.
// Comparison is constant time for both.
type Verifier struct {
	argon2 *Argon2
}

// NewVerifier returns a [Verifier] that also hashes with the default argon2
// parameters.
func NewVerifier() *Verifier {
	a, _ := NewArgon2(DefaultArgon2Config())
	return &Verifier{argon2: a}
}

// Verify reports whether password matches encodedHash. A mismatch is
// (false, nil); an unreadable hash is an error.
func (v *Verifier) Verify(password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, argon2Prefix):
		return v.argon2.Verify(password, encodedHash)
	case isBcrypt(encodedHash):
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, errors.Join(ErrMalformedHash, err)
	default:
		return false, ErrUnsupportedHash
	}
}

// Hash produces an argon2id hash for new or changed passwords.
func (v *Verifier) Hash(password string) (string, error) {
	return v.argon2.Hash(password)
}

// NeedsUpgrade reports whether encodedHash should be replaced on the next
// successful login. Every bcrypt hash qualifies.
func (v *Verifier) NeedsUpgrade(encodedHash string) bool {
	if isBcrypt(encodedHash) {
		return true
	}
	upgrade, err := v.argon2.NeedsUpgrade(encodedHash)
	return err == nil && upgrade
}

func isBcrypt(h string) bool {
	return strings.HasPrefix(h, "$2a$") || strings.HasPrefix(h, "$2b$") || strings.HasPrefix(h, "$2y$")
}
