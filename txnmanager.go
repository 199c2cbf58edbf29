package ccbench

// txnmanager.go implements the retry-with-backoff transaction manager
// (§4.E): it binds BeforeTxn → body → Commit → AfterTxn, classifies
// conflicts, and retries with a bounded randomized backoff up to
// MaxRetries.

import (
	"math/rand"
	"time"
)

// TxnBody is the closure the manager invokes for each attempt. It must be
// pure with respect to external state apart from the storage it touches
// through ctx (§9). Returning false is a terminal body-level rejection: no
// further retries, counted as aborted.
type TxnBody func(ctx *TxnContext, keys []string) bool

// ExecResult is the outcome of one TxnManager.Execute call (§4.E).
type ExecResult struct {
	Committed           bool
	Retries             uint32
	LockConflicts       uint32
	ValidationConflicts uint32
	LatencyS            float64
}

// TxnManager owns the retry policy over a CCStrategy and a Storage.
type TxnManager struct {
	storage    Storage
	strategy   CCStrategy
	ids        *TxnIDGenerator
	maxRetries uint32
	backoffUs  uint32
}

// NewTxnManager returns a manager driving strategy over storage, retrying
// up to maxRetries times with backoff bounded by backoffUs microseconds
// (0 disables sleeping).
func NewTxnManager(storage Storage, strategy CCStrategy, ids *TxnIDGenerator, maxRetries uint32, backoffUs uint32) *TxnManager {
	return &TxnManager{
		storage:    storage,
		strategy:   strategy,
		ids:        ids,
		maxRetries: maxRetries,
		backoffUs:  backoffUs,
	}
}

// Execute runs body against a fresh TxnContext once per attempt, retrying
// on conflict up to m.maxRetries times (§4.E's state machine).
func (m *TxnManager) Execute(body TxnBody, plannedKeys []string, rng *rand.Rand) ExecResult {
	start := time.Now()
	var res ExecResult

	for attempt := uint32(0); ; attempt++ {
		txnID := m.ids.Next()

		ok, reason := m.strategy.BeforeTxn(txnID, plannedKeys)
		if !ok {
			m.countConflict(&res, reason)
			if attempt >= m.maxRetries {
				res.Retries = attempt
				res.LatencyS = time.Since(start).Seconds()
				return res
			}
			m.backoff(attempt, rng)
			continue
		}

		ctx := NewTxnContext(txnID, m.storage)
		if !body(ctx, plannedKeys) {
			m.strategy.AfterTxn(txnID)
			res.Committed = false
			res.Retries = attempt
			res.LatencyS = time.Since(start).Seconds()
			return res
		}

		committed, reason := m.strategy.Commit(m.storage, ctx)
		m.strategy.AfterTxn(txnID)

		if committed {
			res.Committed = true
			res.Retries = attempt
			res.LatencyS = time.Since(start).Seconds()
			return res
		}

		m.countConflict(&res, reason)
		if attempt >= m.maxRetries {
			res.Retries = attempt
			res.LatencyS = time.Since(start).Seconds()
			return res
		}
		m.backoff(attempt, rng)
	}
}

// countConflict tallies a conflict by the classification of reason.
func (m *TxnManager) countConflict(res *ExecResult, reason string) {
	switch classifyReason(reason) {
	case conflictLock:
		res.LockConflicts++
	case conflictValidation:
		res.ValidationConflicts++
	}
}

// backoff sleeps a uniform random duration in [0, backoffUs*(attempt+1))
// microseconds, a bound that grows linearly with the attempt number; a zero backoffUs
// disables sleeping entirely (§4.E). It uses rng so that backoff streams
// stay reproducible given a fixed seed and thread count (§9).
func (m *TxnManager) backoff(attempt uint32, rng *rand.Rand) {
	if m.backoffUs == 0 {
		return
	}
	bound := uint64(m.backoffUs) * uint64(attempt+1)
	us := rng.Int63n(int64(bound))
	time.Sleep(time.Duration(us) * time.Microsecond)
}
