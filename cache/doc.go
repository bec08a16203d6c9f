// Package cache defines the key-value store used for refresh-token records,
// revocation markers and rate-limit counters, plus its Redis implementation.
//
// # Architecture boundaries
//
// Callers depend on [Store] only. Every implementation maps a missing key to
// [ErrNotFound] and every transport failure or timeout to [ErrUnavailable] so
// the fail-open / fail-closed decision stays with the caller.
//
// # What this package must NOT do
//
//   - Decide policy on outages (that is the caller's job).
//   - Hold process-local state that would diverge across replicas.
package cache
