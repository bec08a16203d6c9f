// Package password verifies plaintext passwords against stored hashes and
// produces new hashes.
//
// # Schemes
//
// New hashes are argon2id in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Verifier] also accepts bcrypt hashes ($2a$, $2b$, $2y$) so accounts
// created before the switch keep working; [Verifier.NeedsUpgrade] flags them
// and the engine stores a fresh argon2id hash on the next successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords.
//   - Import any other stackguard package.
//   - Log plaintext passwords.
package password
