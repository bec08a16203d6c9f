// Package memory is an in-process CredentialStore for tests and local
// development. Lookups return copies, so engine changes only land through
// Save.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MrEthical07/stackguard"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]stackguard.Identity
}

func New(identities ...stackguard.Identity) *Store {
	s := &Store{users: make(map[string]stackguard.Identity, len(identities))}
	for _, id := range identities {
		s.Put(id)
	}
	return s
}

// Put inserts or replaces an identity.
func (s *Store) Put(identity stackguard.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[identity.ID] = clone(identity)
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *Store) FindByEmail(_ context.Context, email string) (*stackguard.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := clone(u)
			return &cp, nil
		}
	}
	return nil, stackguard.ErrIdentityNotFound
}

func (s *Store) FindByID(_ context.Context, id string) (*stackguard.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, stackguard.ErrIdentityNotFound
	}
	cp := clone(u)
	return &cp, nil
}

func (s *Store) Save(_ context.Context, identity *stackguard.Identity) error {
	if identity == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[identity.ID]; !ok {
		return stackguard.ErrIdentityNotFound
	}
	s.users[identity.ID] = clone(*identity)
	return nil
}

// RecordLoginFailure counts the failure on the stored record under the
// write lock.
func (s *Store) RecordLoginFailure(_ context.Context, id string, f stackguard.LoginFailure) (int, *time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return 0, nil, stackguard.ErrIdentityNotFound
	}
	f.Apply(&u)
	s.users[id] = u
	out := clone(u)
	return out.FailedLoginAttempts, out.LockUntil, nil
}

func clone(in stackguard.Identity) stackguard.Identity {
	out := in
	out.TeamIDs = append([]string(nil), in.TeamIDs...)
	if in.LockUntil != nil {
		t := *in.LockUntil
		out.LockUntil = &t
	}
	return out
}
