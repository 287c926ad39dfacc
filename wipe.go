package evcipher

import "runtime"

// Wipe overwrites a byte slice with zeros. Callers use it on passphrases once
// Encrypt or Decrypt returns.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
