package evcipher

import (
	"fmt"
	"strconv"
	"strings"
)

const minHeaderTokens = 7

// EncodeHeader serializes p into an EV1 text blob:
//
//	EV1|kdf=argon2id|m=<MB>MB,t=<time>,p=<lanes>|salt=..|hkdf_salt=..|nonce=..|ct=..
func EncodeHeader(p *CipherParams) (string, error) {
	if p == nil {
		return "", fmt.Errorf("cipher params cannot be nil")
	}
	if err := p.Argon2.validateEncodable(); err != nil {
		return "", err
	}
	if err := checkFieldSizes(p); err != nil {
		return "", err
	}

	tokens := []string{
		Version,
		keyKDF + "=" + KDFName,
		formatArgon2Token(p.Argon2),
		keySalt + "=" + ToBase64URL(p.Salt),
		keyHKDFSalt + "=" + ToBase64URL(p.HKDFSalt),
		keyNonce + "=" + ToBase64URL(p.Nonce),
		keyCT + "=" + ToBase64URL(p.Ciphertext),
	}
	return strings.Join(tokens, HeaderDelimiter), nil
}

// DecodeHeader parses an EV1 blob. Every structural problem is reported as a
// *FormatError; no key derivation happens here.
func DecodeHeader(blob string) (*CipherParams, error) {
	tokens := strings.Split(strings.TrimSpace(blob), HeaderDelimiter)

	if tokens[0] != Version {
		return nil, newFormatError(0, "unsupported or missing version tag")
	}
	if len(tokens) < minHeaderTokens {
		return nil, newFormatError(-1, "expected at least %d tokens, got %d", minHeaderTokens, len(tokens))
	}

	key, value, ok := splitToken(tokens[1])
	if !ok || key != keyKDF {
		return nil, newFormatError(1, "expected kdf token")
	}
	if value != KDFName {
		return nil, newFormatError(1, "unsupported kdf %q", value)
	}

	argon2Params, err := parseArgon2Token(tokens[2])
	if err != nil {
		return nil, err
	}

	fields := make(map[string][]byte, len(tokens)-3)
	for i := 3; i < len(tokens); i++ {
		key, value, ok := splitToken(tokens[i])
		if !ok {
			return nil, newFormatError(i, "malformed key=value token")
		}
		if _, dup := fields[key]; dup {
			return nil, newFormatError(i, "duplicate key %q", key)
		}
		data, err := FromBase64URL(value)
		if err != nil {
			return nil, &FormatError{Token: i, Message: fmt.Sprintf("invalid base64url value for %q", key), Err: err}
		}
		fields[key] = data
	}

	for _, required := range []string{keySalt, keyHKDFSalt, keyNonce, keyCT} {
		if _, ok := fields[required]; !ok {
			return nil, newFormatError(-1, "missing %q token", required)
		}
	}

	p := &CipherParams{
		Argon2:     argon2Params,
		Salt:       fields[keySalt],
		HKDFSalt:   fields[keyHKDFSalt],
		Nonce:      fields[keyNonce],
		Ciphertext: fields[keyCT],
	}
	if err := checkFieldSizes(p); err != nil {
		return nil, err
	}
	return p, nil
}

// splitToken splits "key=value" at the first '='. The key must be non-empty.
func splitToken(token string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(token, "=")
	if !ok || key == "" {
		return "", "", false
	}
	return key, value, true
}

func formatArgon2Token(p Argon2Params) string {
	return fmt.Sprintf("m=%dMB,t=%d,p=%d", p.MemoryKB/1024, p.Time, p.Parallelism)
}

// parseArgon2Token parses the fixed grammar m=<uint>MB,t=<uint>,p=<uint>.
// Cost floors are left to Argon2Params.Validate.
func parseArgon2Token(token string) (Argon2Params, error) {
	const idx = 2
	var p Argon2Params

	parts := strings.Split(token, ",")
	if len(parts) != 3 {
		return p, newFormatError(idx, "malformed kdf parameter token")
	}

	memory, ok := strings.CutPrefix(parts[0], "m=")
	if !ok {
		return p, newFormatError(idx, "expected m=<MB>MB")
	}
	memory, ok = strings.CutSuffix(memory, "MB")
	if !ok {
		return p, newFormatError(idx, "memory must be given in MB")
	}
	memoryMB, err := strconv.ParseUint(memory, 10, 32)
	if err != nil || memoryMB > (1<<32-1)/1024 {
		return p, newFormatError(idx, "invalid memory value")
	}

	timeValue, ok := strings.CutPrefix(parts[1], "t=")
	if !ok {
		return p, newFormatError(idx, "expected t=<time>")
	}
	timeCost, err := strconv.ParseUint(timeValue, 10, 32)
	if err != nil {
		return p, newFormatError(idx, "invalid time value")
	}

	lanes, ok := strings.CutPrefix(parts[2], "p=")
	if !ok {
		return p, newFormatError(idx, "expected p=<parallelism>")
	}
	parallelism, err := strconv.ParseUint(lanes, 10, 8)
	if err != nil {
		return p, newFormatError(idx, "invalid parallelism value")
	}

	p.MemoryKB = uint32(memoryMB) * 1024
	p.Time = uint32(timeCost)
	p.Parallelism = uint8(parallelism)
	return p, nil
}

// checkFieldSizes enforces the fixed EV1 field lengths.
func checkFieldSizes(p *CipherParams) error {
	switch {
	case len(p.Salt) != SaltSize:
		return newFormatError(-1, "salt must be %d bytes, got %d", SaltSize, len(p.Salt))
	case len(p.HKDFSalt) != HKDFSaltSize:
		return newFormatError(-1, "hkdf_salt must be %d bytes, got %d", HKDFSaltSize, len(p.HKDFSalt))
	case len(p.Nonce) != NonceSize:
		return newFormatError(-1, "nonce must be %d bytes, got %d", NonceSize, len(p.Nonce))
	case len(p.Ciphertext) < TagSize:
		return newFormatError(-1, "ciphertext shorter than the %d-byte tag", TagSize)
	}
	return nil
}
