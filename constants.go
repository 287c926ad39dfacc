package evcipher

const (
	// Version is the header tag every EV1 blob starts with.
	Version = "EV1"

	// KDFName is the only key-stretching function EV1 declares.
	KDFName = "argon2id"

	// HeaderDelimiter separates header tokens.
	HeaderDelimiter = "|"

	// SaltSize is the size of the Argon2id salt in bytes.
	SaltSize = 16

	// HKDFSaltSize is the size of the HKDF salt in bytes.
	HKDFSaltSize = 16

	// NonceSize is the size of an AES-GCM nonce in bytes.
	NonceSize = 12

	// TagSize is the size of an AES-GCM authentication tag in bytes.
	TagSize = 16

	// KeySize is the size of the root and content keys (AES-256).
	KeySize = 32

	// Default Argon2id costs.
	DefaultMemoryMB    = 64
	DefaultTime        = 3
	DefaultParallelism = 1

	// argon2MinMemoryPerLane is the Argon2 floor of 8 KiB per lane.
	argon2MinMemoryPerLane = 8
)

// Header keys of the base64url fields.
const (
	keySalt     = "salt"
	keyHKDFSalt = "hkdf_salt"
	keyNonce    = "nonce"
	keyCT       = "ct"
	keyKDF      = "kdf"
)

// AssociatedData is bound into every seal and open. Blobs produced under a
// different value never authenticate.
//
// TODO: decide whether this should be rotated per release before other
// products reuse the format.
const AssociatedData = "Peter Panda Dance v1"

// ContentInfo is the HKDF info label of the content encryption key.
const ContentInfo = "EV1/aes-gcm/content"
