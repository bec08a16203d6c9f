package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MrEthical07/stackguard"
	"github.com/MrEthical07/stackguard/permission"
)

const selectUser = `
	select id, email, password_hash, role, is_active, password_changed_at,
	       failed_login_attempts, lock_until
	from users
`

const selectTeams = `select team_id from team_members where user_id = $1 order by team_id`

const updateUser = `
	update users
	set password_hash = $2,
	    is_active = $3,
	    password_changed_at = $4,
	    failed_login_attempts = $5,
	    lock_until = $6
	where id = $1
`

// recordFailure counts one failure in a single statement. The right-hand
// side sees the pre-update row and the row lock serializes concurrent
// callers. An expired lock restarts the count at 1.
const recordFailure = `
	update users
	set failed_login_attempts = case
	        when lock_until is not null and lock_until <= $2 then 1
	        else greatest(failed_login_attempts, 0) + 1
	    end,
	    lock_until = case
	        when (case
	                when lock_until is not null and lock_until <= $2 then 1
	                else greatest(failed_login_attempts, 0) + 1
	              end) >= $3 then $4
	        when lock_until is not null and lock_until <= $2 then null
	        else lock_until
	    end
	where id = $1
	returning failed_login_attempts, lock_until
`

// Store reads identities from the users and team_members tables.
type Store struct {
	db *sql.DB
}

var _ stackguard.CredentialStore = (*Store)(nil)

// Open connects through the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) FindByEmail(ctx context.Context, email string) (*stackguard.Identity, error) {
	return s.find(ctx, selectUser+` where lower(email) = lower($1)`, email)
}

func (s *Store) FindByID(ctx context.Context, id string) (*stackguard.Identity, error) {
	return s.find(ctx, selectUser+` where id = $1`, id)
}

func (s *Store) find(ctx context.Context, query string, arg string) (*stackguard.Identity, error) {
	var (
		identity  stackguard.Identity
		role      string
		changedAt sql.NullTime
		lockUntil sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&role,
		&identity.IsActive,
		&changedAt,
		&identity.FailedLoginAttempts,
		&lockUntil,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stackguard.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	identity.Role, err = permission.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", identity.ID, err)
	}
	if changedAt.Valid {
		identity.PasswordChangedAt = changedAt.Time
	}
	if lockUntil.Valid {
		t := lockUntil.Time
		identity.LockUntil = &t
	}

	identity.TeamIDs, err = s.teams(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *Store) teams(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, selectTeams, userID)
	if err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Save writes the mutable columns in one statement. Team membership and
// email are owned elsewhere and never written here.
func (s *Store) Save(ctx context.Context, identity *stackguard.Identity) error {
	if identity == nil {
		return errors.New("nil identity")
	}

	var changedAt, lockUntil sql.NullTime
	if !identity.PasswordChangedAt.IsZero() {
		changedAt = sql.NullTime{Time: identity.PasswordChangedAt, Valid: true}
	}
	if identity.LockUntil != nil {
		lockUntil = sql.NullTime{Time: *identity.LockUntil, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, updateUser,
		identity.ID,
		identity.PasswordHash,
		identity.IsActive,
		changedAt,
		identity.FailedLoginAttempts,
		lockUntil,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return stackguard.ErrIdentityNotFound
	}
	return nil
}

// RecordLoginFailure increments the failure counter and sets the lock
// deadline atomically.
func (s *Store) RecordLoginFailure(ctx context.Context, id string, f stackguard.LoginFailure) (int, *time.Time, error) {
	var (
		attempts  int
		lockUntil sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, recordFailure,
		id,
		f.At,
		f.Threshold,
		f.At.Add(f.LockFor),
	).Scan(&attempts, &lockUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, stackguard.ErrIdentityNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("record login failure: %w", err)
	}
	if !lockUntil.Valid {
		return attempts, nil, nil
	}
	t := lockUntil.Time
	return attempts, &t, nil
}
