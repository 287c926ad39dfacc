package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"

	"evcipher"
	"evcipher/internal/config"
)

// passphraseSource reads a passphrase without echoing it.
type passphraseSource struct {
	getenv func(string) string
	stdin  *os.File
	prompt io.Writer

	// readLine replaces the terminal read when set.
	readLine func(prompt string) ([]byte, error)
}

func (s *passphraseSource) get(prompt string) ([]byte, error) {
	if envPass := s.getenv(config.EnvPassphrase); envPass != "" {
		return []byte(envPass), nil
	}
	return s.read(prompt)
}

func (s *passphraseSource) getWithConfirm(prompt, confirmPrompt string) ([]byte, error) {
	if envPass := s.getenv(config.EnvPassphrase); envPass != "" {
		return []byte(envPass), nil
	}

	passphrase, err := s.read(prompt)
	if err != nil {
		return nil, err
	}

	confirm, err := s.read(confirmPrompt)
	if err != nil {
		evcipher.Wipe(passphrase)
		return nil, err
	}
	defer evcipher.Wipe(confirm)

	if !bytes.Equal(passphrase, confirm) {
		evcipher.Wipe(passphrase)
		return nil, fmt.Errorf("passphrases do not match")
	}
	return passphrase, nil
}

func (s *passphraseSource) read(prompt string) ([]byte, error) {
	if s.readLine != nil {
		return s.readLine(prompt)
	}
	return s.readTerminal(prompt)
}

func (s *passphraseSource) readTerminal(prompt string) ([]byte, error) {
	fmt.Fprint(s.prompt, prompt)

	fd := int(s.stdin.Fd())
	if !term.IsTerminal(fd) {
		// stdin carries the data, so the passphrase comes from the controlling terminal
		tty, err := os.Open("/dev/tty")
		if err != nil {
			if runtime.GOOS == "windows" {
				return nil, fmt.Errorf("passphrase must be set via %s environment variable when STDIN is piped", config.EnvPassphrase)
			}
			return nil, fmt.Errorf("cannot read passphrase: STDIN is piped and /dev/tty is not available. Set %s environment variable", config.EnvPassphrase)
		}
		defer tty.Close()
		fd = int(tty.Fd())
	}

	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(s.prompt)
	if err != nil {
		return nil, err
	}
	return passphrase, nil
}
