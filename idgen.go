package ccbench

import "sync/atomic"

// TxnIDGenerator is the process-wide monotonic counter issuing one id per
// attempt (not per logical transaction), per §3. It is the only
// process-wide mutable state besides a run's stop flag (§9).
type TxnIDGenerator struct {
	next atomic.Uint64
}

// NewTxnIDGenerator returns a generator whose first Next() call returns 1.
func NewTxnIDGenerator() *TxnIDGenerator {
	return &TxnIDGenerator{}
}

// Next returns the next strictly increasing id.
func (g *TxnIDGenerator) Next() uint64 {
	return g.next.Add(1)
}
