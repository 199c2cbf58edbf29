package ccbench

// workload.go defines the Workload/Template contract (§4.G): each workload
// exposes a name, a prepare step checking expected key-prefix presence, and
// an ordered list of transaction templates. The picker is invoked outside
// the transaction attempt so the same key list is reused across retries.

import (
	"fmt"
	"math/rand"
)

// Template is one named transaction body with its key-selection rule.
type Template struct {
	Name string

	// PickKeys selects the planned key list for one attempt. Invoked once
	// per logical transaction, outside TxnManager.Execute's retry loop.
	PickKeys func(picker *KeyPicker, rng *rand.Rand) ([]string, error)

	// Run is the transaction body: it reads/writes through ctx using
	// keys, and returns false to reject the attempt (terminal, no retry).
	Run func(ctx *TxnContext, keys []string) bool
}

// Workload is a named, ordered set of transaction templates sharing a
// prepare step.
type Workload interface {
	// Name identifies the workload (e.g. for CSV/report labeling).
	Name() string

	// Prepare checks that storage contains the key prefixes this
	// workload expects, failing fast if not.
	Prepare(storage Storage) error

	// Templates returns the ordered transaction templates.
	Templates() []*Template
}

// ErrPrefixNotFound is returned by a workload's Prepare when an expected
// key prefix has no matching keys in storage.
type ErrPrefixNotFound struct {
	Workload string
	Prefix   string
}

func (e *ErrPrefixNotFound) Error() string {
	return fmt.Sprintf("ccbench: workload %q expects at least one key with prefix %q", e.Workload, e.Prefix)
}

// requirePrefix fails Prepare fast if no key in storage carries prefix.
func requirePrefix(storage Storage, workloadName, prefix string) error {
	for _, k := range storage.Keys() {
		if keyPrefix(k) == prefix {
			return nil
		}
	}
	return &ErrPrefixNotFound{Workload: workloadName, Prefix: prefix}
}
