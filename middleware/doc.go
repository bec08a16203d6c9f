// Package middleware adapts the stackguard engine to gin.
//
// [Authenticate] reads the Authorization bearer token, calls
// Engine.Authenticate and stores the resulting session on the request
// context, where handlers read it with [SessionFrom] or
// stackguard.SessionFromContext. The Require* guards delegate to the
// engine's policy checks and must be mounted after Authenticate.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly.
//   - Access Redis.
//   - Make authorization decisions of its own.
package middleware
