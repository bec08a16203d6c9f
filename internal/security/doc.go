// Package security builds a summary of an engine's configured protections.
//
// # What this package must NOT do
//
//   - Read or change engine state; it only interprets configuration.
package security
