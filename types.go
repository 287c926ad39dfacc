package evcipher

// Argon2Params contains the Argon2id costs of one blob
type Argon2Params struct {
	Time        uint32 // Number of passes
	MemoryKB    uint32 // Memory in KiB (e.g., 64*1024 for 64MB)
	Parallelism uint8  // Number of lanes
}

// DefaultArgon2Params returns the costs used when none are configured.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:        DefaultTime,
		MemoryKB:    DefaultMemoryMB * 1024,
		Parallelism: DefaultParallelism,
	}
}

// Validate checks the Argon2id floors.
func (p Argon2Params) Validate() error {
	if p.Time < 1 {
		return newParameterError("time", p.Time, "time cost must be at least 1")
	}
	if p.Parallelism < 1 {
		return newParameterError("parallelism", p.Parallelism, "parallelism must be at least 1")
	}
	if floor := uint64(argon2MinMemoryPerLane) * uint64(p.Parallelism); uint64(p.MemoryKB) < floor {
		return newParameterError("memory", p.MemoryKB,
			"memory cost must be at least %d KiB for parallelism %d, got %d", floor, p.Parallelism, p.MemoryKB)
	}
	return nil
}

// validateEncodable checks that p can be written to a header, which carries
// memory in whole MiB.
func (p Argon2Params) validateEncodable() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.MemoryKB%1024 != 0 {
		return newParameterError("memory", p.MemoryKB,
			"memory cost must be a whole number of MiB, got %d KiB", p.MemoryKB)
	}
	return nil
}

// Limits bounds the costs a header may ask Decrypt to spend.
type Limits struct {
	MaxTime        uint32
	MaxMemoryKB    uint32
	MaxParallelism uint8
}

// DefaultLimits returns the bounds applied to untrusted headers.
func DefaultLimits() Limits {
	return Limits{
		MaxTime:        16,
		MaxMemoryKB:    1024 * 1024, // 1 GiB
		MaxParallelism: 16,
	}
}

// Check returns a ParameterError if p exceeds the limits.
func (l Limits) Check(p Argon2Params) error {
	if p.Time > l.MaxTime {
		return newParameterError("time", p.Time, "time cost %d exceeds limit %d", p.Time, l.MaxTime)
	}
	if p.MemoryKB > l.MaxMemoryKB {
		return newParameterError("memory", p.MemoryKB, "memory cost %d KiB exceeds limit %d KiB", p.MemoryKB, l.MaxMemoryKB)
	}
	if p.Parallelism > l.MaxParallelism {
		return newParameterError("parallelism", p.Parallelism, "parallelism %d exceeds limit %d", p.Parallelism, l.MaxParallelism)
	}
	return nil
}

// Cover returns l raised where needed so that p is within it.
func (l Limits) Cover(p Argon2Params) Limits {
	if p.Time > l.MaxTime {
		l.MaxTime = p.Time
	}
	if p.MemoryKB > l.MaxMemoryKB {
		l.MaxMemoryKB = p.MemoryKB
	}
	if p.Parallelism > l.MaxParallelism {
		l.MaxParallelism = p.Parallelism
	}
	return l
}

// CipherParams is everything a blob carries besides the version and KDF name.
type CipherParams struct {
	Argon2     Argon2Params
	Salt       []byte
	HKDFSalt   []byte
	Nonce      []byte
	Ciphertext []byte // ciphertext || tag
}
