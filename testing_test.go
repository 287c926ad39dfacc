package evcipher

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// cheapParams keeps Argon2id fast in tests.
var cheapParams = Argon2Params{Time: 1, MemoryKB: 1024, Parallelism: 1}

// newTestCipher returns a Cipher with cheap costs whose stretch calls are
// counted.
func newTestCipher(t *testing.T, opts ...Option) (*Cipher, *atomic.Int32) {
	t.Helper()
	c, err := New(append([]Option{WithArgon2Params(cheapParams)}, opts...)...)
	require.NoError(t, err)

	calls := new(atomic.Int32)
	c.stretch = func(passphrase, salt []byte, p Argon2Params) ([]byte, error) {
		calls.Add(1)
		return DeriveRootKey(passphrase, salt, p)
	}
	return c, calls
}
