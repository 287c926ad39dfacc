package evcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	gcmpb "github.com/tink-crypto/tink-go/v2/proto/aes_gcm_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"
	"google.golang.org/protobuf/proto"
)

const aesGCMTypeURL = "type.googleapis.com/google.crypto.tink.AesGcmKey"

// Seal encrypts plaintext with AES-256-GCM under key and nonce, binding aad.
// The result is ciphertext || tag.
func Seal(key, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("AES-256 requires a %d-byte key, got %d bytes", KeySize, len(key))
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return gcm.Seal(nil, nonce, plaintext, aad), nil
}

// Open verifies and decrypts ciphertext || tag. Any verification failure,
// whatever its cause, yields a nil plaintext and an *AuthenticationError.
func Open(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("AES-256 requires a %d-byte key, got %d bytes", KeySize, len(key))
	}
	if len(nonce) != NonceSize || len(ciphertext) < TagSize {
		return nil, &AuthenticationError{}
	}

	primitive, err := newRawAESGCM(key)
	if err != nil {
		return nil, err
	}

	// A RAW AES-GCM key consumes nonce || ciphertext || tag.
	framed := make([]byte, 0, len(nonce)+len(ciphertext))
	framed = append(framed, nonce...)
	framed = append(framed, ciphertext...)

	plaintext, err := primitive.Decrypt(framed, aad)
	if err != nil {
		return nil, &AuthenticationError{}
	}
	return plaintext, nil
}

// newRawAESGCM wraps a raw content key into a single-key Tink keyset with no
// output prefix and returns its AEAD primitive.
func newRawAESGCM(key []byte) (tink.AEAD, error) {
	keyValue, err := proto.Marshal(&gcmpb.AesGcmKey{
		Version:  0,
		KeyValue: key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize key: %w", err)
	}
	defer Wipe(keyValue)

	ks := &tinkpb.Keyset{
		PrimaryKeyId: 1,
		Key: []*tinkpb.Keyset_Key{{
			KeyData: &tinkpb.KeyData{
				TypeUrl:         aesGCMTypeURL,
				Value:           keyValue,
				KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
			},
			Status:           tinkpb.KeyStatusType_ENABLED,
			KeyId:            1,
			OutputPrefixType: tinkpb.OutputPrefixType_RAW,
		}},
	}

	handle, err := insecurecleartextkeyset.Read(&keyset.MemReaderWriter{Keyset: ks})
	if err != nil {
		return nil, fmt.Errorf("failed to create keyset: %w", err)
	}

	primitive, err := aead.New(handle)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}
	return primitive, nil
}
