package ccbench

// stats.go implements Stats (§4.I): commit/abort counters, per-sample
// latencies, conflict counters, and percentiles. Reference: generalizes
// the atomic-counter/histogram split of
// github.com/aalhour/rockyardkv's statistics.go, but keeps raw latency
// samples (rather than streaming min/max/sum only) since §4.I requires
// percentiles over the full sample set.

import "sort"

// Stats accumulates one worker's (or one template's) outcomes over a run.
// Not safe for concurrent use — each worker owns its Stats exclusively
// during the run and merges happen only after join (§4.H).
type Stats struct {
	Committed           uint64
	Aborted             uint64
	Retries             uint64
	LockConflicts       uint64
	ValidationConflicts uint64
	TotalCommitLatencyS float64

	CommitLatenciesS   []float64
	ResponseLatenciesS []float64
}

// NewStats returns a zeroed Stats.
func NewStats() *Stats { return &Stats{} }

// AddResult folds one TxnManager.Execute outcome into s: latency and
// conflict counters are always recorded; committed outcomes additionally
// add a commit-latency sample, uncommitted ones count as aborted.
func (s *Stats) AddResult(r ExecResult) {
	s.Retries += uint64(r.Retries)
	s.LockConflicts += uint64(r.LockConflicts)
	s.ValidationConflicts += uint64(r.ValidationConflicts)
	s.ResponseLatenciesS = append(s.ResponseLatenciesS, r.LatencyS)

	if r.Committed {
		s.Committed++
		s.TotalCommitLatencyS += r.LatencyS
		s.CommitLatenciesS = append(s.CommitLatenciesS, r.LatencyS)
	} else {
		s.Aborted++
	}
}

// Merge combines other's scalar counters by addition and concatenates its
// latency vectors into s (order of samples is irrelevant to percentiles).
func (s *Stats) Merge(other *Stats) {
	s.Committed += other.Committed
	s.Aborted += other.Aborted
	s.Retries += other.Retries
	s.LockConflicts += other.LockConflicts
	s.ValidationConflicts += other.ValidationConflicts
	s.TotalCommitLatencyS += other.TotalCommitLatencyS
	s.CommitLatenciesS = append(s.CommitLatenciesS, other.CommitLatenciesS...)
	s.ResponseLatenciesS = append(s.ResponseLatenciesS, other.ResponseLatenciesS...)
}

// Percentile sorts a copy of values and returns the element at index
// floor(q*(n-1)). Returns 0 for an empty input. This is a reporting choice,
// not a contract (§9 Open Questions): no linear interpolation is performed.
func Percentile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	idx := int(q * float64(n-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// AbortRate returns Aborted / (Committed + Aborted), or 0 if no attempts
// completed.
func (s *Stats) AbortRate() float64 {
	total := s.Committed + s.Aborted
	if total == 0 {
		return 0
	}
	return float64(s.Aborted) / float64(total)
}

// RetryPerCommit returns Retries / Committed, or 0 if nothing committed.
func (s *Stats) RetryPerCommit() float64 {
	if s.Committed == 0 {
		return 0
	}
	return float64(s.Retries) / float64(s.Committed)
}

// AvgCommitLatencyS returns the mean of CommitLatenciesS, or 0 if empty.
func (s *Stats) AvgCommitLatencyS() float64 {
	if len(s.CommitLatenciesS) == 0 {
		return 0
	}
	return s.TotalCommitLatencyS / float64(len(s.CommitLatenciesS))
}

// AvgResponseLatencyS returns the mean of ResponseLatenciesS, or 0 if
// empty.
func (s *Stats) AvgResponseLatencyS() float64 {
	if len(s.ResponseLatenciesS) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.ResponseLatenciesS {
		sum += v
	}
	return sum / float64(len(s.ResponseLatenciesS))
}
