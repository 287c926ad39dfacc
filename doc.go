// Package evcipher implements Everything Cipher v1 (EV1), a passphrase-based
// authenticated encryption scheme that turns a byte buffer into a single
// self-describing text blob and back.
//
// # Algorithm Suite
//
//   - Argon2id stretches the passphrase into a 32-byte root key using a fresh
//     16-byte salt.
//   - HKDF-SHA256 expands the root key, with a second fresh 16-byte salt and the
//     label "EV1/aes-gcm/content", into the content key.
//   - AES-256-GCM seals the plaintext under the content key with a fresh
//     12-byte nonce and [AssociatedData] bound as associated data.
//
// # Wire Format
//
//	EV1|kdf=argon2id|m=64MB,t=3,p=1|salt=<b64url>|hkdf_salt=<b64url>|nonce=<b64url>|ct=<b64url>
//
// Binary fields are URL-safe base64 without padding. [DecodeHeader] rejects a
// malformed blob with a [*FormatError] before any key stretching happens.
//
// # Errors
//
// Callers distinguish failures with [IsFormatError], [IsParameterError] and
// [IsAuthenticationError]. A wrong passphrase and tampered data are reported
// identically as [*AuthenticationError].
//
// # Concurrency
//
// Encrypt and Decrypt are blocking: Argon2id is deliberately expensive. Use
// [Cipher.EncryptContext] and [Cipher.DecryptContext] to bound how long a
// caller waits.
package evcipher
