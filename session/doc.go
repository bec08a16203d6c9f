// Package session persists the single active refresh-token record per
// subject and performs the atomic consume step of refresh rotation.
//
// # Architecture boundaries
//
// Records live in a [cache.Store] under a key derived from the subject id.
// Only the session manager writes or deletes these keys.
//
// # What this package must NOT do
//
//   - Verify token signatures (that is the jwt package's job).
//   - Swallow store outages: they are returned wrapped in [cache.ErrUnavailable]
//     and the caller fails closed.
package session
