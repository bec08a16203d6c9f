// Package postgres implements stackguard.CredentialStore over database/sql
// with the pgx stdlib driver.
//
// Expected schema:
//
//	users(id text primary key, email text unique, password_hash text,
//	      role text, is_active bool, password_changed_at timestamptz,
//	      failed_login_attempts int, lock_until timestamptz null)
//	team_members(user_id text references users(id), team_id text)
//
// Email lookups compare lower(email), so an index on lower(email) keeps
// them cheap.
package postgres
