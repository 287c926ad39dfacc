package evcipher

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures a Cipher.
type Option func(*Cipher)

// WithArgon2Params sets the costs used by Encrypt. Decrypt always uses the
// costs recorded in the blob.
func WithArgon2Params(p Argon2Params) Option {
	return func(c *Cipher) {
		c.params = p
	}
}

// WithLimits bounds the costs Decrypt accepts from a blob header. New raises
// any bound below the encryption costs.
func WithLimits(l Limits) Option {
	return func(c *Cipher) {
		c.limits = l
	}
}

// WithLogger sets the logger. Only operation names, costs, sizes and
// durations are logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Cipher) {
		if l != nil {
			c.log = l
		}
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
