package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/stackguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReturnsCopies(t *testing.T) {
	s := New(stackguard.Identity{ID: "u-1", Email: "Ada@Example.com", TeamIDs: []string{"t-1"}, IsActive: true})

	got, err := s.FindByEmail(context.Background(), "ada@example.COM")
	require.NoError(t, err)
	got.TeamIDs[0] = "changed"
	got.FailedLoginAttempts = 3

	again, err := s.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t-1"}, again.TeamIDs)
	assert.Zero(t, again.FailedLoginAttempts)
}

func TestStoreSave(t *testing.T) {
	s := New(stackguard.Identity{ID: "u-1", Email: "a@example.com"})
	lock := time.Unix(100, 0)

	id, err := s.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	id.LockUntil = &lock
	require.NoError(t, s.Save(context.Background(), id))

	lock = time.Unix(200, 0)
	stored, err := s.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, stored.LockUntil)
	assert.Equal(t, int64(100), stored.LockUntil.Unix())

	err = s.Save(context.Background(), &stackguard.Identity{ID: "missing"})
	assert.ErrorIs(t, err, stackguard.ErrIdentityNotFound)
}

func TestStoreMissing(t *testing.T) {
	s := New()
	_, err := s.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, stackguard.ErrIdentityNotFound)
	s.Put(stackguard.Identity{ID: "u-2"})
	s.Remove("u-2")
	_, err = s.FindByID(context.Background(), "u-2")
	assert.ErrorIs(t, err, stackguard.ErrIdentityNotFound)
}

func TestStoreRecordLoginFailureConcurrent(t *testing.T) {
	s := New(stackguard.Identity{ID: "u-1", Email: "a@example.com"})
	now := time.Unix(1_700_000_000, 0)
	f := stackguard.LoginFailure{At: now, Threshold: 100, LockFor: time.Minute}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.RecordLoginFailure(context.Background(), "u-1", f)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := s.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 50, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockUntil)
}

func TestStoreRecordLoginFailureLocksAndRestarts(t *testing.T) {
	s := New(stackguard.Identity{ID: "u-1"})
	now := time.Unix(1_700_000_000, 0)
	f := stackguard.LoginFailure{At: now, Threshold: 2, LockFor: time.Minute}

	attempts, until, err := s.RecordLoginFailure(context.Background(), "u-1", f)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Nil(t, until)

	attempts, until, err = s.RecordLoginFailure(context.Background(), "u-1", f)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.NotNil(t, until)
	assert.True(t, until.Equal(now.Add(time.Minute)))

	f.At = now.Add(2 * time.Minute)
	attempts, until, err = s.RecordLoginFailure(context.Background(), "u-1", f)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Nil(t, until)

	_, _, err = s.RecordLoginFailure(context.Background(), "missing", f)
	assert.ErrorIs(t, err, stackguard.ErrIdentityNotFound)
}
