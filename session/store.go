package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/MrEthical07/stackguard/cache"
)

var (
	// ErrRefreshNotFound is returned when no record exists for the subject.
	ErrRefreshNotFound = errors.New("refresh record not found")
	// ErrRefreshMismatch is returned when the presented token is not the
	// active one, or another rotation consumed it first.
	ErrRefreshMismatch = errors.New("refresh token mismatch")
)

// DefaultPrefix is the key namespace for refresh records.
const DefaultPrefix = "rt"

// RefreshStore owns the per-subject refresh-token keys.
type RefreshStore struct {
	cache  cache.Store
	prefix string
}

// NewRefreshStore creates a [RefreshStore] over the given cache.
func NewRefreshStore(store cache.Store, prefix string) *RefreshStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RefreshStore{
		cache:  store,
		prefix: prefix,
	}
}

func (s *RefreshStore) key(subjectID string) string {
	return s.prefix + ":" + subjectID
}

// Save writes rec for its subject, replacing any earlier record. This is
// what keeps at most one refresh token valid per subject.
//
//	Performance: 1 SET.
func (s *RefreshStore) Save(ctx context.Context, rec *Record, ttl time.Duration) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.key(rec.SubjectID), data, ttl)
}

// Get returns the active record for subjectID.
//
//	Performance: 1 GET.
func (s *RefreshStore) Get(ctx context.Context, subjectID string) (*Record, error) {
	rec, _, err := s.load(ctx, subjectID)
	return rec, err
}

// Consume atomically removes the subject's record if and only if it holds
// presented. Two concurrent callers with the same token get one success and
// one [ErrRefreshMismatch].
//
//	Performance: 1 GET + 1 EVALSHA.
func (s *RefreshStore) Consume(ctx context.Context, subjectID, presented string) error {
	rec, raw, err := s.load(ctx, subjectID)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(rec.Token), []byte(presented)) != 1 {
		return ErrRefreshMismatch
	}

	deleted, err := s.cache.CompareAndDelete(ctx, s.key(subjectID), raw)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRefreshMismatch
	}
	return nil
}

// Delete removes the subject's record. Missing records are not an error.
//
//	Performance: 1 DEL.
func (s *RefreshStore) Delete(ctx context.Context, subjectID string) error {
	return s.cache.Delete(ctx, s.key(subjectID))
}

func (s *RefreshStore) load(ctx context.Context, subjectID string) (*Record, string, error) {
	raw, err := s.cache.Get(ctx, s.key(subjectID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, "", ErrRefreshNotFound
		}
		return nil, "", err
	}

	rec, err := Decode(raw)
	if err != nil {
		return nil, "", err
	}
	if rec.SubjectID != subjectID {
		return nil, "", ErrRecordCorrupt
	}
	return rec, raw, nil
}
