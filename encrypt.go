package evcipher

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Encrypt seals plaintext under passphrase and returns the EV1 blob. Salt,
// HKDF salt and nonce are drawn fresh from crypto/rand on every call.
func (c *Cipher) Encrypt(plaintext, passphrase []byte) (string, error) {
	start := time.Now()

	salt, err := randomBytes(SaltSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	hkdfSalt, err := randomBytes(HKDFSaltSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate hkdf salt: %w", err)
	}
	nonce, err := randomBytes(NonceSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := deriveKeys(c.stretch, passphrase, salt, hkdfSalt, c.params)
	if err != nil {
		return "", err
	}
	defer Wipe(key)

	ciphertext, err := Seal(key, nonce, plaintext, []byte(AssociatedData))
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}

	blob, err := EncodeHeader(&CipherParams{
		Argon2:     c.params,
		Salt:       salt,
		HKDFSalt:   hkdfSalt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	})
	if err != nil {
		return "", err
	}

	c.log.WithFields(logrus.Fields{
		"op":          "encrypt",
		"memory_kb":   c.params.MemoryKB,
		"time":        c.params.Time,
		"parallelism": c.params.Parallelism,
		"size":        len(plaintext),
		"elapsed":     time.Since(start),
	}).Debug("sealed blob")

	return blob, nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
