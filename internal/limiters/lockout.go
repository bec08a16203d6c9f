package limiters

import "time"

// State is the lockout-related slice of an account record.
type State struct {
	FailedAttempts int
	LockUntil      *time.Time
}

// Lockout locks an account for Duration after Threshold consecutive
// failures.
//
// Account states cycle Unlocked -> Locked -> Unlocked; a lock ends when its
// deadline passes or a login succeeds.
type Lockout struct {
	Threshold int
	Duration  time.Duration
}

// IsLocked reports whether s carries a lock deadline still in the future.
func (l Lockout) IsLocked(s State, now time.Time) bool {
	return s.LockUntil != nil && now.Before(*s.LockUntil)
}

// RecordFailure counts one failed attempt on s and reports whether the
// account is now locked. A lock whose deadline has passed is cleared first,
// so counting restarts at 1.
func (l Lockout) RecordFailure(s *State, now time.Time) bool {
	if s == nil || l.Threshold <= 0 {
		return false
	}

	if s.LockUntil != nil && !now.Before(*s.LockUntil) {
		s.FailedAttempts = 0
		s.LockUntil = nil
	}
	if s.FailedAttempts < 0 {
		s.FailedAttempts = 0
	}

	s.FailedAttempts++
	if s.FailedAttempts >= l.Threshold {
		until := now.Add(l.Duration)
		s.LockUntil = &until
		return true
	}
	return false
}

// Reset clears both counters after a successful login.
func (l Lockout) Reset(s *State) {
	if s == nil {
		return
	}
	s.FailedAttempts = 0
	s.LockUntil = nil
}
