package evcipher

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Decrypt opens an EV1 blob. Header problems return a *FormatError and
// out-of-range costs a *ParameterError, both before any stretching. A wrong
// passphrase and tampered data both return an *AuthenticationError.
func (c *Cipher) Decrypt(blob string, passphrase []byte) ([]byte, error) {
	start := time.Now()
	log := c.log.WithField("op", "decrypt")

	params, err := DecodeHeader(blob)
	if err != nil {
		log.WithError(err).Debug("rejected header")
		return nil, err
	}

	if err := params.Argon2.Validate(); err != nil {
		log.WithError(err).Debug("rejected kdf parameters")
		return nil, err
	}
	if err := c.limits.Check(params.Argon2); err != nil {
		log.WithError(err).Debug("rejected kdf parameters")
		return nil, err
	}

	key, err := deriveKeys(c.stretch, passphrase, params.Salt, params.HKDFSalt, params.Argon2)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	plaintext, err := Open(key, params.Nonce, params.Ciphertext, []byte(AssociatedData))
	if err != nil {
		log.Debug("authentication failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"memory_kb":   params.Argon2.MemoryKB,
		"time":        params.Argon2.Time,
		"parallelism": params.Argon2.Parallelism,
		"size":        len(plaintext),
		"elapsed":     time.Since(start),
	}).Debug("opened blob")

	return plaintext, nil
}
