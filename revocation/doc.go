// Package revocation tracks explicitly revoked access tokens until their
// natural expiry.
//
// Each entry is a marker keyed by the raw token string with a TTL equal to
// the token's remaining lifetime, so the ledger never grows without bound
// and needs no pruning.
//
// Lookups fail open: when the backing store is unreachable the token is
// treated as not revoked and a warning is logged.
package revocation
