// Package config loads the evcipher CLI configuration from an optional YAML
// file and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"evcipher"
)

const (
	// EnvConfigFile names a YAML configuration file.
	EnvConfigFile = "EVCIPHER_CONFIG"
	// EnvPassphrase supplies the passphrase instead of the prompt.
	EnvPassphrase = "EVCIPHER_PASSPHRASE"

	EnvMemory      = "EVCIPHER_MEMORY"
	EnvTime        = "EVCIPHER_TIME"
	EnvParallelism = "EVCIPHER_PARALLELISM"
	EnvLogLevel    = "EVCIPHER_LOG_LEVEL"

	// Bounds on the costs dec accepts from a blob.
	EnvMaxMemory      = "EVCIPHER_MAX_MEMORY"
	EnvMaxTime        = "EVCIPHER_MAX_TIME"
	EnvMaxParallelism = "EVCIPHER_MAX_PARALLELISM"
)

// Config is the CLI configuration.
type Config struct {
	Argon2   Argon2 `yaml:"argon2"`
	Limits   Limits `yaml:"limits"`
	LogLevel string `yaml:"log_level"`
}

// Argon2 holds the encryption costs as written in the file.
type Argon2 struct {
	Memory      string `yaml:"memory"` // e.g. "64M", "1G"; bare numbers are MB
	Time        uint32 `yaml:"time"`
	Parallelism uint8  `yaml:"parallelism"`
}

// Limits holds the largest costs dec accepts from a blob header.
type Limits struct {
	MaxMemory      string `yaml:"max_memory"`
	MaxTime        uint32 `yaml:"max_time"`
	MaxParallelism uint8  `yaml:"max_parallelism"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	limits := evcipher.DefaultLimits()
	return Config{
		Argon2: Argon2{
			Memory:      strconv.Itoa(evcipher.DefaultMemoryMB),
			Time:        evcipher.DefaultTime,
			Parallelism: evcipher.DefaultParallelism,
		},
		Limits: Limits{
			MaxMemory:      strconv.FormatUint(uint64(limits.MaxMemoryKB/1024), 10),
			MaxTime:        limits.MaxTime,
			MaxParallelism: limits.MaxParallelism,
		},
		LogLevel: "warn",
	}
}

// Load builds the configuration from defaults, then the file named by
// EVCIPHER_CONFIG, then individual environment variables.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv(EnvConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if v := getenv(EnvMemory); v != "" {
		cfg.Argon2.Memory = v
	}
	if v := getenv(EnvTime); v != "" {
		t, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s value: %w", EnvTime, err)
		}
		cfg.Argon2.Time = uint32(t)
	}
	if v := getenv(EnvParallelism); v != "" {
		p, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s value: %w", EnvParallelism, err)
		}
		cfg.Argon2.Parallelism = uint8(p)
	}
	if v := getenv(EnvMaxMemory); v != "" {
		cfg.Limits.MaxMemory = v
	}
	if v := getenv(EnvMaxTime); v != "" {
		t, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s value: %w", EnvMaxTime, err)
		}
		cfg.Limits.MaxTime = uint32(t)
	}
	if v := getenv(EnvMaxParallelism); v != "" {
		p, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s value: %w", EnvMaxParallelism, err)
		}
		cfg.Limits.MaxParallelism = uint8(p)
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// Argon2Params converts the configured costs.
func (c Config) Argon2Params() (evcipher.Argon2Params, error) {
	memory, err := ParseMemory(c.Argon2.Memory)
	if err != nil {
		return evcipher.Argon2Params{}, fmt.Errorf("invalid memory value: %w", err)
	}
	return evcipher.Argon2Params{
		Time:        c.Argon2.Time,
		MemoryKB:    memory,
		Parallelism: c.Argon2.Parallelism,
	}, nil
}

// CostLimits converts the configured decryption bounds.
func (c Config) CostLimits() (evcipher.Limits, error) {
	memory, err := ParseMemory(c.Limits.MaxMemory)
	if err != nil {
		return evcipher.Limits{}, fmt.Errorf("invalid max memory value: %w", err)
	}
	if c.Limits.MaxTime < 1 {
		return evcipher.Limits{}, fmt.Errorf("max time must be at least 1")
	}
	if c.Limits.MaxParallelism < 1 {
		return evcipher.Limits{}, fmt.Errorf("max parallelism must be at least 1")
	}
	return evcipher.Limits{
		MaxTime:        c.Limits.MaxTime,
		MaxMemoryKB:    memory,
		MaxParallelism: c.Limits.MaxParallelism,
	}, nil
}

// Level parses the configured log level.
func (c Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}

// ParseMemory parses memory strings like "64", "64M", "64MB", "1G", "1GB"
// into KiB. Bare numbers are treated as MB. The result is always a whole
// number of MiB since the blob header records memory in MB.
func ParseMemory(s string) (uint32, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	multiplier := uint64(1024) // MB to KB
	if strings.HasSuffix(s, "GB") || strings.HasSuffix(s, "G") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(strings.TrimSuffix(s, "GB"), "G")
	} else if strings.HasSuffix(s, "MB") || strings.HasSuffix(s, "M") {
		s = strings.TrimSuffix(strings.TrimSuffix(s, "MB"), "M")
	}

	val, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}

	result := val * multiplier
	if result > 0xFFFFFFFF {
		return 0, fmt.Errorf("memory value too large")
	}
	if result < 1024 {
		return 0, fmt.Errorf("memory must be at least 1MB")
	}

	return uint32(result), nil
}
