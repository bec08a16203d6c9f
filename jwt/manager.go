package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned when the current time is past expiresAt.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned for bad structure, bad signature, wrong
	// algorithm or missing claims.
	ErrTokenMalformed = errors.New("token malformed")
)

const minSecretLength = 32

// Kind selects which signing key and claim shape a token uses.
type Kind uint8

const (
	// KindAccess is the short-lived bearer credential.
	KindAccess Kind = iota + 1
	// KindRefresh is the long-lived credential used only for rotation.
	KindRefresh
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Config holds the codec secrets and lifetimes.
type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AccessSecret  []byte
	RefreshSecret []byte

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Manager signs and verifies tokens. It is immutable after construction and
// safe for concurrent use.
type Manager struct {
	config Config
}

// Timestamps are the issue and expiry times shared by both claim shapes,
// encoded as Unix seconds.
type Timestamps struct {
	IssuedAt  int64 `json:"issuedAt"`
	ExpiresAt int64 `json:"expiresAt"`
}

func (t Timestamps) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(t.ExpiresAt, 0)), nil
}

func (t Timestamps) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(t.IssuedAt, 0)), nil
}

func (Timestamps) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (Timestamps) GetIssuer() (string, error)              { return "", nil }
func (Timestamps) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// AccessClaims is the exact access-token payload.
type AccessClaims struct {
	SubjectID string `json:"subjectId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Timestamps
}

func (c AccessClaims) GetSubject() (string, error) { return c.SubjectID, nil }

// RefreshClaims is the exact refresh-token payload.
type RefreshClaims struct {
	SubjectID string `json:"subjectId"`
	Timestamps
}

func (c RefreshClaims) GetSubject() (string, error) { return c.SubjectID, nil }

// Claims is the decoded view returned by [Manager.Verify] for either kind.
// Email and Role are empty for refresh tokens.
type Claims struct {
	Kind      Kind
	SubjectID string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewManager validates cfg and returns a [Manager].
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if len(cfg.AccessSecret) < minSecretLength {
		return nil, fmt.Errorf("access secret must be at least %d bytes", minSecretLength)
	}
	if len(cfg.RefreshSecret) < minSecretLength {
		return nil, fmt.Errorf("refresh secret must be at least %d bytes", minSecretLength)
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Manager{config: cfg}, nil
}

// IssueAccess mints an access token for the subject. The returned [Claims]
// mirror the signed payload.
func (j *Manager) IssueAccess(subjectID, email, role string) (string, *Claims, error) {
	if subjectID == "" || role == "" {
		return "", nil, errors.New("access token requires subject and role")
	}

	ts := j.timestamps(j.config.AccessTTL)
	token, err := j.sign(AccessClaims{
		SubjectID:  subjectID,
		Email:      email,
		Role:       role,
		Timestamps: ts,
	}, j.config.AccessSecret)
	if err != nil {
		return "", nil, err
	}

	return token, &Claims{
		Kind:      KindAccess,
		SubjectID: subjectID,
		Email:     email,
		Role:      role,
		IssuedAt:  time.Unix(ts.IssuedAt, 0),
		ExpiresAt: time.Unix(ts.ExpiresAt, 0),
	}, nil
}

// IssueRefresh mints a refresh token carrying only the subject id.
func (j *Manager) IssueRefresh(subjectID string) (string, *Claims, error) {
	if subjectID == "" {
		return "", nil, errors.New("refresh token requires subject")
	}

	ts := j.timestamps(j.config.RefreshTTL)
	token, err := j.sign(RefreshClaims{
		SubjectID:  subjectID,
		Timestamps: ts,
	}, j.config.RefreshSecret)
	if err != nil {
		return "", nil, err
	}

	return token, &Claims{
		Kind:      KindRefresh,
		SubjectID: subjectID,
		IssuedAt:  time.Unix(ts.IssuedAt, 0),
		ExpiresAt: time.Unix(ts.ExpiresAt, 0),
	}, nil
}

// Verify checks signature and structure for the given kind, then expiry.
// A bad signature always wins over expiry: a forged token is reported as
// [ErrTokenMalformed] even when its claimed expiry has passed. On
// [ErrTokenExpired] the decoded claims are returned alongside the error.
func (j *Manager) Verify(tokenStr string, kind Kind) (*Claims, error) {
	if strings.Count(tokenStr, ".") != 2 {
		return nil, ErrTokenMalformed
	}

	var (
		out    *Claims
		target jwt.Claims
		secret []byte
	)

	switch kind {
	case KindAccess:
		target = &AccessClaims{}
		secret = j.config.AccessSecret
	case KindRefresh:
		target = &RefreshClaims{}
		secret = j.config.RefreshSecret
	default:
		return nil, fmt.Errorf("%w: unknown token kind", ErrTokenMalformed)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenStr, target, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	switch c := target.(type) {
	case *AccessClaims:
		if c.SubjectID == "" || c.Role == "" || c.ExpiresAt == 0 {
			return nil, fmt.Errorf("%w: missing access claims", ErrTokenMalformed)
		}
		out = &Claims{
			Kind:      KindAccess,
			SubjectID: c.SubjectID,
			Email:     c.Email,
			Role:      c.Role,
			IssuedAt:  time.Unix(c.IssuedAt, 0),
			ExpiresAt: time.Unix(c.ExpiresAt, 0),
		}
	case *RefreshClaims:
		if c.SubjectID == "" || c.ExpiresAt == 0 {
			return nil, fmt.Errorf("%w: missing refresh claims", ErrTokenMalformed)
		}
		out = &Claims{
			Kind:      KindRefresh,
			SubjectID: c.SubjectID,
			IssuedAt:  time.Unix(c.IssuedAt, 0),
			ExpiresAt: time.Unix(c.ExpiresAt, 0),
		}
	}

	if j.config.Now().After(out.ExpiresAt) {
		return out, ErrTokenExpired
	}

	return out, nil
}

// AccessTTL reports the configured access-token lifetime.
func (j *Manager) AccessTTL() time.Duration { return j.config.AccessTTL }

// RefreshTTL reports the configured refresh-token lifetime.
func (j *Manager) RefreshTTL() time.Duration { return j.config.RefreshTTL }

// timestamps floors the clock to the second once and derives both stamps
// from it. Expiry is ttl after IssuedAt, which may be up to a second before
// the call.
func (j *Manager) timestamps(ttl time.Duration) Timestamps {
	issued := j.config.Now().Truncate(time.Second)
	return Timestamps{
		IssuedAt:  issued.Unix(),
		ExpiresAt: issued.Add(ttl.Truncate(time.Second)).Unix(),
	}
}

func (j *Manager) sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// Two tokens minted for one subject in the same second must still differ,
	// otherwise a rotated refresh token would equal its predecessor.
	token.Header["jti"] = uuid.NewString()
	return token.SignedString(secret)
}
