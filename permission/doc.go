// Package permission is the access policy engine: a closed set of roles and
// permissions, a static role to permission map, and the four request guards
// applied to an already-authenticated subject.
//
// # Mask
//
// A role's permissions are held in a [Mask64]. Permission values are the bit
// positions, so the whole catalogue must stay below 64 entries.
//
// # Architecture boundaries
//
// Guards are pure predicates over data the caller already loaded. Callers
// pass the resource's owner or team id in; this package never looks them up.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import stackguard, jwt, or session.
//   - Mutate the role map at runtime.
package permission
