package evcipher

import (
	"errors"
	"fmt"
)

// ErrAuthFailed is wrapped by every AuthenticationError.
var ErrAuthFailed = errors.New("authentication failed - wrong passphrase or corrupted data")

// ParameterError reports invalid key-stretching parameters. It is returned
// before any derivation work starts.
type ParameterError struct {
	Field   string // The parameter that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
}

func (e *ParameterError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parameter error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("parameter error: %s", e.Message)
}

// FormatError reports a header that could not be parsed. It is returned
// before any cryptographic work starts.
type FormatError struct {
	Token   int    // Index of the offending token, -1 if not token specific
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *FormatError) Error() string {
	if e.Token >= 0 {
		return fmt.Sprintf("format error: token %d: %s", e.Token, e.Message)
	}
	return fmt.Sprintf("format error: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// AuthenticationError reports a failed AEAD verification. A wrong passphrase
// and tampered data produce the same error.
type AuthenticationError struct{}

func (e *AuthenticationError) Error() string {
	return ErrAuthFailed.Error()
}

func (e *AuthenticationError) Unwrap() error {
	return ErrAuthFailed
}

func newParameterError(field string, value any, format string, args ...any) error {
	return &ParameterError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

func newFormatError(token int, format string, args ...any) error {
	return &FormatError{
		Token:   token,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsParameterError checks if an error is a parameter error
func IsParameterError(err error) bool {
	var pe *ParameterError
	return errors.As(err, &pe)
}

// IsFormatError checks if an error is a format error
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
