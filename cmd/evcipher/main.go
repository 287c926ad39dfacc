package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"evcipher"
	"evcipher/internal/config"
)

const Version = "1.0.0"

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitFormat
	exitParameter
	exitAuthentication
)

// app is one CLI invocation. Fields are swapped out in tests.
type app struct {
	args       []string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	getenv     func(string) string
	passphrase func(prompt string, confirm bool) ([]byte, error)
}

func main() {
	src := &passphraseSource{getenv: os.Getenv, stdin: os.Stdin, prompt: os.Stderr}
	a := &app{
		args:   os.Args[1:],
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		passphrase: func(prompt string, confirm bool) ([]byte, error) {
			if confirm {
				return src.getWithConfirm(prompt, "Confirm passphrase: ")
			}
			return src.get(prompt)
		},
	}
	os.Exit(a.execute())
}

// execute runs the CLI and maps the error to an exit code.
func (a *app) execute() int {
	err := a.run()
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case evcipher.IsFormatError(err):
		return exitFormat
	case evcipher.IsParameterError(err):
		return exitParameter
	case evcipher.IsAuthenticationError(err):
		return exitAuthentication
	default:
		return exitFailure
	}
}

func (a *app) run() error {
	if len(a.args) != 1 {
		a.printUsage()
		if len(a.args) == 0 {
			return fmt.Errorf("no mode specified")
		}
		return fmt.Errorf("expected exactly one mode, got %d arguments", len(a.args))
	}

	switch mode := a.args[0]; mode {
	case "enc", "dec":
		return a.runMode(mode)
	case "--help", "-h":
		a.printUsage()
		return nil
	case "--version", "-v":
		fmt.Fprintf(a.stderr, "evcipher version %s (%s)\n", Version, evcipher.Version)
		return nil
	default:
		a.printUsage()
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func (a *app) runMode(mode string) error {
	cfg, err := config.Load(a.getenv)
	if err != nil {
		return err
	}

	log, err := a.newLogger(cfg)
	if err != nil {
		return err
	}

	limits, err := cfg.CostLimits()
	if err != nil {
		return err
	}

	// Costs are only required for enc. When they are valid, dec accepts blobs
	// written with them so the same environment round trips.
	params, paramsErr := cfg.Argon2Params()
	if paramsErr == nil {
		paramsErr = params.Validate()
	}
	opts := []evcipher.Option{evcipher.WithLogger(log)}
	switch {
	case mode == "enc" && paramsErr != nil:
		return paramsErr
	case mode == "enc":
		opts = append(opts, evcipher.WithArgon2Params(params))
	case paramsErr == nil:
		limits = limits.Cover(params)
	}
	opts = append(opts, evcipher.WithLimits(limits))

	c, err := evcipher.New(opts...)
	if err != nil {
		return err
	}

	input, err := io.ReadAll(bufio.NewReaderSize(a.stdin, 1024*1024))
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if mode == "enc" {
		return a.encrypt(c, input)
	}
	return a.decrypt(c, input)
}

func (a *app) encrypt(c *evcipher.Cipher, plaintext []byte) error {
	defer evcipher.Wipe(plaintext)

	passphrase, err := a.passphrase("Enter passphrase: ", true)
	if err != nil {
		return fmt.Errorf("failed to get passphrase: %w", err)
	}
	defer evcipher.Wipe(passphrase)

	if len(passphrase) == 0 {
		return fmt.Errorf("passphrase cannot be empty")
	}

	blob, err := c.Encrypt(plaintext, passphrase)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(a.stdout, blob); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (a *app) decrypt(c *evcipher.Cipher, input []byte) error {
	blob := string(bytes.TrimSpace(input))

	// Reject a malformed blob before asking for the passphrase.
	if _, err := evcipher.DecodeHeader(blob); err != nil {
		return err
	}

	passphrase, err := a.passphrase("Enter passphrase: ", false)
	if err != nil {
		return fmt.Errorf("failed to get passphrase: %w", err)
	}
	defer evcipher.Wipe(passphrase)

	plaintext, err := c.Decrypt(blob, passphrase)
	if err != nil {
		return err
	}
	defer evcipher.Wipe(plaintext)

	if _, err := a.stdout.Write(plaintext); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (a *app) newLogger(cfg config.Config) (*logrus.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(a.stderr)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, nil
}

func (a *app) printUsage() {
	usage := `evcipher - Passphrase-based authenticated encryption (Everything Cipher v1)

USAGE:
    evcipher <mode>

MODES:
    enc              Encrypt STDIN to an EV1 text blob on STDOUT
    dec              Decrypt an EV1 blob from STDIN to STDOUT
    --help, -h       Show this help message
    --version, -v    Show version information

PASSPHRASE:
    Set EVCIPHER_PASSPHRASE environment variable, or enter interactively.

CONFIGURATION (environment):
    EVCIPHER_CONFIG       Path to a YAML config file
    EVCIPHER_MEMORY       Argon2 memory cost for enc (default: 64M)
    EVCIPHER_TIME         Argon2 iterations for enc (default: 3)
    EVCIPHER_PARALLELISM  Argon2 lanes for enc (default: 1)
    EVCIPHER_MAX_MEMORY   Largest Argon2 memory dec accepts (default: 1G)
    EVCIPHER_MAX_TIME     Largest Argon2 iterations dec accepts (default: 16)
    EVCIPHER_MAX_PARALLELISM
                          Largest Argon2 lanes dec accepts (default: 16)
    EVCIPHER_LOG_LEVEL    Log level on STDERR (default: warn)

EXIT CODES:
    0 success, 1 failure, 2 malformed blob, 3 invalid costs,
    4 wrong passphrase or corrupted data

EXAMPLES:
    echo -n 'hello world' | evcipher enc > note.ev1
    evcipher dec < note.ev1
`
	fmt.Fprint(a.stderr, usage)
}
