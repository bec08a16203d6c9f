// Package rate implements the per-IP attempt limiter guarding the auth
// endpoints.
//
// # Window semantics
//
// Fixed-window counters keyed rl:<ip>. Each attempt increments first and is
// denied once the returned count exceeds the ceiling. The store sets the
// window TTL atomically with the first increment. A successful login clears
// the counter early.
//
// # Failure policy
//
// The limiter fails open. When the store is unreachable the attempt is
// allowed and a warning is logged.
//
// # What this package must NOT do
//
//   - Track per-account failures (that is internal/limiters).
//   - Be imported outside the stackguard module.
package rate
