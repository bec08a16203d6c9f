// Package limiters holds the per-account lockout policy.
//
// # Limiters
//
//   - [Lockout] counts consecutive failed logins on the account record and
//     sets a lock deadline once the threshold is reached.
//
// Lockout state lives on the identity in the credential store, not in the
// cache, so it survives cache outages. [Lockout] only mutates a [State];
// persisting it is the caller's job.
//
// # What this package must NOT do
//
//   - Import stackguard or any sibling internal package.
//   - Perform I/O.
package limiters
