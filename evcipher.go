package evcipher

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Cipher encrypts and decrypts EV1 blobs with a fixed configuration. It holds
// no key material and is safe for concurrent use.
type Cipher struct {
	params  Argon2Params
	limits  Limits
	log     logrus.FieldLogger
	stretch stretchFunc
}

// New returns a Cipher with default costs and limits, modified by opts. It
// fails with a *ParameterError if the configured costs cannot be used for
// encryption. The limits are raised to cover the encryption costs so a Cipher
// always opens its own blobs.
func New(opts ...Option) (*Cipher, error) {
	c := &Cipher{
		params:  DefaultArgon2Params(),
		limits:  DefaultLimits(),
		log:     discardLogger(),
		stretch: DeriveRootKey,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.params.validateEncodable(); err != nil {
		return nil, err
	}
	c.limits = c.limits.Cover(c.params)
	return c, nil
}

// Params returns the costs used by Encrypt.
func (c *Cipher) Params() Argon2Params {
	return c.params
}

var defaultCipher = &Cipher{
	params:  DefaultArgon2Params(),
	limits:  DefaultLimits(),
	log:     discardLogger(),
	stretch: DeriveRootKey,
}

// Encrypt seals plaintext under passphrase with the default costs.
func Encrypt(plaintext, passphrase []byte) (string, error) {
	return defaultCipher.Encrypt(plaintext, passphrase)
}

// Decrypt opens an EV1 blob with passphrase.
func Decrypt(blob string, passphrase []byte) ([]byte, error) {
	return defaultCipher.Decrypt(blob, passphrase)
}

type result[T any] struct {
	value T
	err   error
}

// runContext runs fn on its own goroutine and gives up waiting when ctx ends.
// fn has no side effects besides its return value, so abandoning it is safe.
func runContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	done := make(chan result[T], 1)
	go func() {
		v, err := fn()
		done <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// EncryptContext is Encrypt run off the caller's goroutine. It returns
// ctx.Err() if ctx ends before stretching completes.
func (c *Cipher) EncryptContext(ctx context.Context, plaintext, passphrase []byte) (string, error) {
	return runContext(ctx, func() (string, error) {
		return c.Encrypt(plaintext, passphrase)
	})
}

// DecryptContext is Decrypt run off the caller's goroutine.
func (c *Cipher) DecryptContext(ctx context.Context, blob string, passphrase []byte) ([]byte, error) {
	return runContext(ctx, func() ([]byte, error) {
		return c.Decrypt(blob, passphrase)
	})
}
