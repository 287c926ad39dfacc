package evcipher

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sampleParams() *CipherParams {
	return &CipherParams{
		Argon2:     DefaultArgon2Params(),
		Salt:       bytes.Repeat([]byte{0x01}, SaltSize),
		HKDFSalt:   bytes.Repeat([]byte{0x02}, HKDFSaltSize),
		Nonce:      bytes.Repeat([]byte{0x03}, NonceSize),
		Ciphertext: bytes.Repeat([]byte{0xfb}, TagSize+5),
	}
}

func TestEncodeHeader_Layout(t *testing.T) {
	blob, err := EncodeHeader(sampleParams())
	require.NoError(t, err)

	tokens := strings.Split(blob, "|")
	require.Len(t, tokens, 7)
	assert.Equal(t, "EV1", tokens[0])
	assert.Equal(t, "kdf=argon2id", tokens[1])
	assert.Equal(t, "m=64MB,t=3,p=1", tokens[2])
	assert.Equal(t, "salt=AQEBAQEBAQEBAQEBAQEBAQ", tokens[3])
	assert.Equal(t, "hkdf_salt=AgICAgICAgICAgICAgICAg", tokens[4])
	assert.Equal(t, "nonce=AwMDAwMDAwMDAwMD", tokens[5])
	assert.True(t, strings.HasPrefix(tokens[6], "ct=-_v7"), tokens[6])
	for _, tok := range tokens[3:] {
		assert.False(t, strings.HasSuffix(tok, "="), "padding in %q", tok)
	}
}

func TestHeader_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := &CipherParams{
			Argon2: Argon2Params{
				Time:        rapid.Uint32Range(1, 100).Draw(t, "time"),
				MemoryKB:    rapid.Uint32Range(1, 4096).Draw(t, "memoryMB") * 1024,
				Parallelism: rapid.Uint8Range(1, 64).Draw(t, "parallelism"),
			},
			Salt:       rapid.SliceOfN(rapid.Byte(), SaltSize, SaltSize).Draw(t, "salt"),
			HKDFSalt:   rapid.SliceOfN(rapid.Byte(), HKDFSaltSize, HKDFSaltSize).Draw(t, "hkdfSalt"),
			Nonce:      rapid.SliceOfN(rapid.Byte(), NonceSize, NonceSize).Draw(t, "nonce"),
			Ciphertext: rapid.SliceOfN(rapid.Byte(), TagSize, 512).Draw(t, "ciphertext"),
		}

		blob, err := EncodeHeader(p)
		if err != nil {
			t.Fatalf("EncodeHeader() error = %v", err)
		}
		got, err := DecodeHeader(blob)
		if err != nil {
			t.Fatalf("DecodeHeader() error = %v", err)
		}
		if got.Argon2 != p.Argon2 ||
			!bytes.Equal(got.Salt, p.Salt) ||
			!bytes.Equal(got.HKDFSalt, p.HKDFSalt) ||
			!bytes.Equal(got.Nonce, p.Nonce) ||
			!bytes.Equal(got.Ciphertext, p.Ciphertext) {
			t.Fatalf("DecodeHeader(EncodeHeader(p)) = %+v, want %+v", got, p)
		}
	})
}

func TestDecodeHeader_FormatErrors(t *testing.T) {
	valid, err := EncodeHeader(sampleParams())
	require.NoError(t, err)
	tokens := strings.Split(valid, "|")

	with := func(i int, tok string) string {
		out := append([]string(nil), tokens...)
		out[i] = tok
		return strings.Join(out, "|")
	}

	tests := []struct {
		name  string
		blob  string
		token int
	}{
		{"empty", "", 0},
		{"lowercase version", "ev1" + valid[3:], 0},
		{"truncated", valid[:10], -1},
		{"six tokens", strings.Join(tokens[:6], "|"), -1},
		{"kdf not key=value", with(1, "argon2id"), 1},
		{"kdf wrong key", with(1, "alg=argon2id"), 1},
		{"unsupported kdf", with(1, "kdf=scrypt"), 1},
		{"params missing part", with(2, "m=64MB,t=3"), 2},
		{"params wrong order", with(2, "t=3,m=64MB,p=1"), 2},
		{"params memory without unit", with(2, "m=64,t=3,p=1"), 2},
		{"params memory in KB", with(2, "m=64KB,t=3,p=1"), 2},
		{"params negative time", with(2, "m=64MB,t=-3,p=1"), 2},
		{"params parallelism overflow", with(2, "m=64MB,t=3,p=256"), 2},
		{"params memory overflow", with(2, "m=4194304MB,t=3,p=1"), 2},
		{"token without equals", with(3, "saltAQEB"), 3},
		{"token with empty key", with(3, "=AQEB"), 3},
		{"invalid base64 char", with(5, "nonce=AwMD+wMD"), 5},
		{"impossible base64 length", with(5, "nonce=AwMDA"), 5},
		{"line break in value", with(5, "nonce=AwMDAwMD\nAwMDAwMD"), 5},
		{"duplicate key", valid + "|salt=AQEBAQEBAQEBAQEBAQEBAQ", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHeader(tt.blob)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.token, fe.Token, fe.Error())
		})
	}
}

func TestDecodeHeader_FieldChecks(t *testing.T) {
	valid, err := EncodeHeader(sampleParams())
	require.NoError(t, err)
	tokens := strings.Split(valid, "|")

	tests := []struct {
		name string
		blob string
	}{
		{"missing ct", strings.Join(append(tokens[:6:6], "extra=AA"), "|")},
		{"short salt", strings.Replace(valid, "salt=AQEBAQEBAQEBAQEBAQEBAQ", "salt=AQEB", 1)},
		{"short nonce", strings.Replace(valid, tokens[5], "nonce=AwMD", 1)},
		{"short ciphertext", strings.Replace(valid, tokens[6], "ct=AAAA", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHeader(tt.blob)
			assert.True(t, IsFormatError(err), "got %v", err)
		})
	}
}

func TestDecodeHeader_Lenient(t *testing.T) {
	valid, err := EncodeHeader(sampleParams())
	require.NoError(t, err)

	t.Run("unknown trailing key", func(t *testing.T) {
		p, err := DecodeHeader(valid + "|note=aGk")
		require.NoError(t, err)
		assert.Equal(t, sampleParams().Ciphertext, p.Ciphertext)
	})

	t.Run("reordered fields", func(t *testing.T) {
		tokens := strings.Split(valid, "|")
		tokens[3], tokens[6] = tokens[6], tokens[3]
		_, err := DecodeHeader(strings.Join(tokens, "|"))
		require.NoError(t, err)
	})

	t.Run("padded values", func(t *testing.T) {
		p, err := DecodeHeader(strings.Replace(valid, "salt=AQEBAQEBAQEBAQEBAQEBAQ|", "salt=AQEBAQEBAQEBAQEBAQEBAQ==|", 1))
		require.NoError(t, err)
		assert.Equal(t, sampleParams().Salt, p.Salt)
	})

	t.Run("trailing newline", func(t *testing.T) {
		_, err := DecodeHeader(valid + "\r\n")
		require.NoError(t, err)
	})
}

func TestEncodeHeader_Rejects(t *testing.T) {
	_, err := EncodeHeader(nil)
	assert.Error(t, err)

	p := sampleParams()
	p.Argon2.MemoryKB = 1000
	_, err = EncodeHeader(p)
	assert.True(t, IsParameterError(err), "got %v", err)

	p = sampleParams()
	p.Nonce = p.Nonce[:8]
	_, err = EncodeHeader(p)
	assert.True(t, IsFormatError(err), "got %v", err)
}
