package ccbench

// config.go defines RunConfig, the benchmark driver's configuration,
// mirroring the teacher's Options/DefaultOptions pattern (options.go):
// functional defaults via DefaultRunConfig, validated in one place, passed
// by value into the driver.

import (
	"errors"
	"fmt"
)

// StorageMode selects the Storage implementation the CLI wires up.
type StorageMode int

const (
	// StorageInMem uses InMemoryStorage.
	StorageInMem StorageMode = iota
	// StorageRocksDB uses internal/snapstore's persistent snapshot
	// backend (named for the CLI's --storage flag value, §6; it does not
	// claim RocksDB disk compatibility).
	StorageRocksDB
)

// CCMode selects which CCStrategy the CLI wires up.
type CCMode int

const (
	// CCNoCC is the unsafe baseline.
	CCNoCC CCMode = iota
	// CCOCC is optimistic concurrency control.
	CCOCC
	// CCC2PL is conservative two-phase locking.
	CCC2PL
)

// RunConfig is the benchmark driver's configuration (§4.H, §6).
type RunConfig struct {
	Threads      int
	DurationS    float64
	PHot         float64
	HotsetSize   int
	Seed         uint64
	MaxRetries   uint32
	BackoffUs    uint32
	WorkloadName string
	StorageMode  StorageMode
	CCMode       CCMode
	InputPath    string
	WorkloadPath string
	DBPath       string
	CSVPath      string
}

// DefaultRunConfig returns a RunConfig with conservative defaults suitable
// for a quick local run.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Threads:      4,
		DurationS:    1.0,
		PHot:         0.0,
		HotsetSize:   0,
		Seed:         1,
		MaxRetries:   5,
		BackoffUs:    100,
		WorkloadName: "w1",
		StorageMode:  StorageInMem,
		CCMode:       CCOCC,
	}
}

// Validate checks RunConfig for the config errors §7 treats as fatal at
// startup (invalid flag values independent of the input/workload file
// contents).
func (c RunConfig) Validate() error {
	if c.Threads <= 0 {
		return errors.New("ccbench: threads must be positive")
	}
	if c.DurationS <= 0 {
		return errors.New("ccbench: duration_s must be positive")
	}
	if c.PHot < 0 || c.PHot > 1 {
		return errors.New("ccbench: p_hot must be within [0,1]")
	}
	if c.HotsetSize < 0 {
		return errors.New("ccbench: hotset_size must be non-negative")
	}
	switch c.WorkloadName {
	case "w1", "w2":
	default:
		return fmt.Errorf("ccbench: unknown workload_name %q", c.WorkloadName)
	}
	if c.StorageMode == StorageRocksDB && c.DBPath == "" {
		return errors.New("ccbench: --storage rocksdb requires --db_path")
	}
	return nil
}
