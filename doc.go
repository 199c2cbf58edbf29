/*
Package ccbench is a transactional key-value benchmarking framework. It
measures, under controlled contention, the throughput and latency of
competing concurrency-control (CC) strategies over a shared in-memory
record store.

Three strategies share a single transaction-manager retry loop:

  - No-CC: an unsafe baseline that applies writes without validation.
  - OCC: optimistic concurrency control, validating the read set under a
    single commit mutex before applying writes.
  - C2PL: conservative two-phase locking, acquiring every planned key
    exclusively before the transaction body runs.

# Usage

See cmd/ccbench for the command-line driver. Programmatically, construct a
Storage, a LockManager, a CCStrategy, wrap them in a TxnManager, and drive
attempts with TxnManager.Execute.

# Concurrency

Storage, LockManager, and every CCStrategy implementation are safe for
concurrent use by multiple goroutines. A TxnContext is single-owner: create
a fresh one per attempt and never share it across goroutines.

Reference: this package generalizes the lock-manager and transaction-hook
patterns of github.com/aalhour/rockyardkv's pessimistic transactions to a
pluggable strategy interface with three concrete CC variants.
*/
package ccbench
