package ccbench

// cc_nocc.go implements the unsafe No-CC baseline (§4.D): no pre-hook, no
// validation, commit simply applies the write set. It exists to
// demonstrate invariant violations under contention (S2).

// NoCCStrategy is the baseline strategy with no concurrency control at all.
type NoCCStrategy struct{}

// NewNoCCStrategy returns a No-CC strategy.
func NewNoCCStrategy() *NoCCStrategy { return &NoCCStrategy{} }

// Name implements CCStrategy.
func (s *NoCCStrategy) Name() string { return "no_cc" }

// BeforeTxn implements CCStrategy; No-CC never blocks an attempt upfront.
func (s *NoCCStrategy) BeforeTxn(txnID uint64, plannedKeys []string) (bool, string) {
	return true, ""
}

// Commit implements CCStrategy: apply the write set unconditionally.
func (s *NoCCStrategy) Commit(storage Storage, ctx *TxnContext) (bool, string) {
	applyWriteSet(storage, ctx)
	return true, ""
}

// AfterTxn implements CCStrategy; No-CC holds no resources.
func (s *NoCCStrategy) AfterTxn(txnID uint64) {}
