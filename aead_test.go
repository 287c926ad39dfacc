package evcipher

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"simple", []byte("hello world")},
		{"json", []byte(`{"foo": "bar", "num": 123}`)},
		{"binary", []byte{0x00, 0xff, 0x7f, 0x80}},
		{"large", make([]byte, 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := randomKey(t)
			nonce, err := randomBytes(NonceSize)
			require.NoError(t, err)
			aad := []byte(AssociatedData)

			ciphertext, err := Seal(key, nonce, tt.plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, ciphertext, len(tt.plaintext)+TagSize)

			plaintext, err := Open(key, nonce, ciphertext, aad)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.plaintext, plaintext))
		})
	}
}

// Seal output must be plain AES-256-GCM so other implementations can open it.
func TestSeal_MatchesStandardGCM(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, KeySize)
	nonce := bytes.Repeat([]byte{0x22}, NonceSize)
	aad := []byte(AssociatedData)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)
	want := gcm.Seal(nil, nonce, []byte("interop"), aad)

	got, err := Seal(key, nonce, []byte("interop"), aad)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpen_FailsClosed(t *testing.T) {
	key := randomKey(t)
	nonce, err := randomBytes(NonceSize)
	require.NoError(t, err)
	aad := []byte(AssociatedData)

	ciphertext, err := Seal(key, nonce, []byte("secret message"), aad)
	require.NoError(t, err)

	flip := func(b []byte, i int) []byte {
		out := append([]byte(nil), b...)
		out[i] ^= 0x01
		return out
	}

	tests := []struct {
		name       string
		key        []byte
		nonce      []byte
		ciphertext []byte
		aad        []byte
	}{
		{"wrong key", randomKey(t), nonce, ciphertext, aad},
		{"flipped ciphertext", key, nonce, flip(ciphertext, 0), aad},
		{"flipped tag", key, nonce, flip(ciphertext, len(ciphertext)-1), aad},
		{"flipped nonce", key, flip(nonce, 3), ciphertext, aad},
		{"other aad", key, nonce, ciphertext, []byte("Peter Panda Dance v2")},
		{"no aad", key, nonce, ciphertext, nil},
		{"truncated", key, nonce, ciphertext[:len(ciphertext)-1], aad},
		{"shorter than tag", key, nonce, ciphertext[:TagSize-1], aad},
		{"short nonce", key, nonce[:8], ciphertext, aad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext, err := Open(tt.key, tt.nonce, tt.ciphertext, tt.aad)
			assert.Nil(t, plaintext)
			assert.True(t, IsAuthenticationError(err), "got %v", err)
			assert.Equal(t, ErrAuthFailed.Error(), err.Error())
		})
	}
}

func TestSeal_InvalidSizes(t *testing.T) {
	_, err := Seal(make([]byte, 16), make([]byte, NonceSize), nil, nil)
	assert.Error(t, err)

	_, err = Seal(make([]byte, KeySize), make([]byte, 8), nil, nil)
	assert.Error(t, err)

	_, err = Open(make([]byte, 16), make([]byte, NonceSize), make([]byte, TagSize), nil)
	assert.Error(t, err)
	assert.False(t, IsAuthenticationError(err))
}
