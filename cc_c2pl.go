package ccbench

// cc_c2pl.go implements conservative two-phase locking (§4.D): BeforeTxn
// takes every planned key exclusively, atomically, via the shared
// LockManager; Commit re-validates the read set as a belt-and-braces check
// (planned keys may be a superset or subset of the keys actually read) and
// applies writes; AfterTxn releases the remembered keys. Lock acquisition
// is non-blocking — on contention the attempt aborts immediately rather
// than waiting, so C2PL here never deadlocks (§1 Non-goals).

import "sync"

// C2PLStrategy acquires all planned keys up front through a shared
// LockManager and releases them in AfterTxn.
type C2PLStrategy struct {
	locks *LockManager

	mu   sync.Mutex
	held map[uint64][]string // txnID -> sorted deduped keys it holds
}

// NewC2PLStrategy returns a C2PL strategy backed by locks, which the
// program owns and may share with other consumers (§9).
func NewC2PLStrategy(locks *LockManager) *C2PLStrategy {
	return &C2PLStrategy{locks: locks, held: make(map[uint64][]string)}
}

// Name implements CCStrategy.
func (s *C2PLStrategy) Name() string { return "c2pl" }

// BeforeTxn implements CCStrategy: try to acquire every planned key
// exclusively in one atomic group. On success, remember the sorted
// deduped key list under txnID so AfterTxn can release exactly those keys.
func (s *C2PLStrategy) BeforeTxn(txnID uint64, plannedKeys []string) (bool, string) {
	ordered := sortedDedupedKeys(plannedKeys)
	if !s.locks.TryLockExclusiveMany(ordered) {
		return false, "c2pl_lock_conflict"
	}
	s.mu.Lock()
	s.held[txnID] = ordered
	s.mu.Unlock()
	return true, ""
}

// Commit implements CCStrategy: re-validate the read set identically to
// OCC, then apply the write set. No additional locking is needed here
// because the planned keys are already held exclusively.
func (s *C2PLStrategy) Commit(storage Storage, ctx *TxnContext) (bool, string) {
	if !validateReadSet(storage, ctx) {
		return false, "c2pl_validation_conflict"
	}
	applyWriteSet(storage, ctx)
	return true, ""
}

// AfterTxn implements CCStrategy: unlock the remembered keys and forget
// txnID. Idempotent — calling it twice, or for a txnID whose BeforeTxn
// never succeeded, is a no-op.
func (s *C2PLStrategy) AfterTxn(txnID uint64) {
	s.mu.Lock()
	keys, ok := s.held[txnID]
	if ok {
		delete(s.held, txnID)
	}
	s.mu.Unlock()
	if ok {
		s.locks.UnlockExclusiveMany(keys)
	}
}
