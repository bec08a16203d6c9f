package postgres

import "context"

var schema = []string{
	`
	create table if not exists users (
		id text primary key,
		email text not null unique,
		password_hash text not null,
		role text not null check (role in ('admin', 'member', 'viewer')),
		is_active boolean not null default true,
		password_changed_at timestamptz,
		failed_login_attempts integer not null default 0,
		lock_until timestamptz
	)
	`,
	`create unique index if not exists users_email_lower_idx on users (lower(email))`,
	`
	create table if not exists team_members (
		user_id text not null references users(id) on delete cascade,
		team_id text not null,
		primary key (user_id, team_id)
	)
	`,
}

// EnsureSchema creates the tables the store reads if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, q := range schema {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
