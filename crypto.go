package evcipher

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// DeriveRootKey stretches a passphrase into a 32-byte root key using Argon2id.
// The parameters are validated before any hashing work starts.
func DeriveRootKey(passphrase, salt []byte, p Argon2Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) != SaltSize {
		return nil, newParameterError("salt", len(salt), "salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	return argon2.IDKey(passphrase, salt, p.Time, p.MemoryKB, p.Parallelism, KeySize), nil
}

// DeriveContentKey expands a root key into a purpose-bound 32-byte key with
// HKDF-SHA256. EV1 only ever uses ContentInfo as the label.
func DeriveContentKey(rootKey, hkdfSalt, info []byte) ([]byte, error) {
	if len(rootKey) != KeySize {
		return nil, fmt.Errorf("root key must be %d bytes, got %d", KeySize, len(rootKey))
	}

	reader := hkdf.New(sha256.New, rootKey, hkdfSalt, info)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive content key: %w", err)
	}
	return key, nil
}

// deriveKeys runs both derivation stages and wipes the root key.
func deriveKeys(stretch stretchFunc, passphrase, salt, hkdfSalt []byte, p Argon2Params) ([]byte, error) {
	rootKey, err := stretch(passphrase, salt, p)
	if err != nil {
		return nil, err
	}
	defer Wipe(rootKey)

	return DeriveContentKey(rootKey, hkdfSalt, []byte(ContentInfo))
}

// stretchFunc has the shape of DeriveRootKey.
type stretchFunc func(passphrase, salt []byte, p Argon2Params) ([]byte, error)
