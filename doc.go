// Package stackguard is the identity and access-control core of the
// dependency tracker: token issuance and verification, refresh rotation,
// server-side revocation, brute-force protection and role based access
// checks.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// stackguard is the public surface. It exposes [Engine], [Builder], [Config]
// and value types ([Identity], [TokenPair], [Session]). The credential store
// and cache store are injected collaborators; the engine owns no
// process-wide state.
//
// # Failure policy
//
// Cache outages are absorbed per component. Refresh fails closed; revocation
// checks and IP rate limiting fail open and log a warning. Cache errors are
// never returned from Engine methods.
//
// # What this package must NOT do
//
//   - Start background goroutines.
//   - Expose Redis clients or record encodings in its public API.
//   - Import any sub-package that re-imports stackguard.
package stackguard
