// Package password hashes and verifies passwords with Argon2id, stored as
// PHC strings:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<tag>
//
// Hashes made without a pepper or associated data are plain Argon2id and
// verify with any conforming implementation. A pepper or associated data is
// bound to the password with HMAC-SHA-512 before derivation rather than
// through Argon2's own secret and associated data inputs, which
// golang.org/x/crypto/argon2 does not expose. PHC strings produced with
// either can only be verified by this package.
//
// Cost parameters are bounded in both directions: Verify treats a hash above
// the Hasher's limits as a mismatch and HashWithParams rejects them, so a
// caller cannot make the process derive with arbitrary memory or passes.
package password
