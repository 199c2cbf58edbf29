package ccbench

// ccstrategy.go defines the common contract every concurrency-control
// strategy implements (§4.D). Reason tokens are free-form strings that must
// contain "lock" for lock-acquisition failures and "validation" (or
// "version") for read-set-conflict failures; TxnManager classifies
// conflicts by substring (§4.D, §7).

import "strings"

// CCStrategy is the pluggable concurrency-control contract. Implementations
// must be safe for concurrent use across goroutines.
type CCStrategy interface {
	// Name identifies the strategy (e.g. for stats/report labeling).
	Name() string

	// BeforeTxn is an optional pre-hook invoked before the transaction
	// body runs. Returning false aborts the attempt before any reads or
	// writes occur; reason should explain why (classified by substring).
	BeforeTxn(txnID uint64, plannedKeys []string) (ok bool, reason string)

	// Commit validates (if applicable) and applies ctx's write set to
	// storage. Returning false aborts the attempt; reason should explain
	// why.
	Commit(storage Storage, ctx *TxnContext) (ok bool, reason string)

	// AfterTxn releases any resources BeforeTxn acquired for txnID. It
	// must be idempotent and must be called exactly once per successful
	// BeforeTxn, on every exit path.
	AfterTxn(txnID uint64)
}

// conflictKind classifies a reason token produced by BeforeTxn or Commit.
type conflictKind int

const (
	conflictNone conflictKind = iota
	conflictLock
	conflictValidation
)

// classifyReason implements the manager's substring-based conflict
// classification (§4.D, §7).
func classifyReason(reason string) conflictKind {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "lock"):
		return conflictLock
	case strings.Contains(lower, "validation"), strings.Contains(lower, "version"):
		return conflictValidation
	default:
		return conflictNone
	}
}

// applyWriteSet applies ctx's write set to storage using the shared
// No-CC/OCC/C2PL commit rule: version = current version + 1, or 1 if the
// key is absent (§4.D). It is the one piece of apply logic all three
// strategies share.
func applyWriteSet(storage Storage, ctx *TxnContext) {
	for key, rec := range ctx.WriteSet() {
		current, ok := storage.Get(key)
		var nextVersion uint64 = 1
		if ok {
			nextVersion = current.Version + 1
		}
		rec.Version = nextVersion
		storage.Put(key, rec)
	}
}

// validateReadSet re-reads every key in ctx's read set and reports whether
// its existence and version still match what was captured (§4.D step 1,
// shared by OCC and C2PL's belt-and-braces re-check).
func validateReadSet(storage Storage, ctx *TxnContext) bool {
	for key, entry := range ctx.ReadSet() {
		current, ok := storage.Get(key)
		if ok != entry.exists {
			return false
		}
		if ok && current.Version != entry.version {
			return false
		}
	}
	return true
}
