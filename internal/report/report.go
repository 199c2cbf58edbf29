// Package report formats a benchmark run's results for human consumption
// (a text summary to stdout) and for downstream analysis (appendable CSV
// rows per run — one overall row plus one per template — per §6).
//
// CSV is implemented on encoding/csv: the column set is fixed and small,
// and none of the pack's libraries (arrow/parquet writers, struct-tag CSV
// marshalers) improve on the standard library for a single flat row
// appended to a growing file — see DESIGN.md.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Row is one line of a run's reportable figures: the CLI assembles it
// from RunConfig and either the merged overall Stats or one template's
// Stats (report does not depend on the root package to avoid a
// leaf-package import cycle).
type Row struct {
	RowType  string // "overall" or "template"
	Template string
	Workload string
	CC       string
	Threads  int

	DurationS  float64
	PHot       float64
	HotsetSize int

	Committed           uint64
	Aborted             uint64
	Retries             uint64
	LockConflicts       uint64
	ValidationConflicts uint64

	AbortRate     float64
	RetryPerCommit float64

	ThroughputTPS      float64
	AvgCommitLatencyMS float64
	AvgResponseLatencyMS float64
	P50ResponseMS      float64
	P95ResponseMS      float64
	P99ResponseMS      float64

	// BalanceBefore/BalanceAfter hold the summed balance field before and
	// after the run. The CLI populates them on the overall row of every
	// workload; PrintText shows them only for the overall row of the
	// transfer workload (w1), which reports conservation of that sum (§4.G,
	// §8 testable property).
	BalanceBefore int64
	BalanceAfter  int64
}

// Columns is the fixed CSV header, in column order (§6).
var Columns = []string{
	"row_type", "template", "workload", "cc", "threads", "duration_s",
	"p_hot", "hotset_size",
	"committed", "aborted", "retries", "abort_rate", "retry_per_commit",
	"lock_conflicts", "validation_conflicts",
	"throughput_tps", "avg_commit_latency_ms", "avg_response_latency_ms",
	"p50_response_ms", "p95_response_ms", "p99_response_ms",
	"balance_before", "balance_after",
}

func (r Row) toRecord() []string {
	return []string{
		r.RowType, r.Template, r.Workload, r.CC,
		strconv.Itoa(r.Threads), formatFloat(r.DurationS),
		formatFloat(r.PHot), strconv.Itoa(r.HotsetSize),
		strconv.FormatUint(r.Committed, 10), strconv.FormatUint(r.Aborted, 10),
		strconv.FormatUint(r.Retries, 10), formatFloat(r.AbortRate), formatFloat(r.RetryPerCommit),
		strconv.FormatUint(r.LockConflicts, 10), strconv.FormatUint(r.ValidationConflicts, 10),
		formatFloat(r.ThroughputTPS), formatFloat(r.AvgCommitLatencyMS), formatFloat(r.AvgResponseLatencyMS),
		formatFloat(r.P50ResponseMS), formatFloat(r.P95ResponseMS), formatFloat(r.P99ResponseMS),
		strconv.FormatInt(r.BalanceBefore, 10), strconv.FormatInt(r.BalanceAfter, 10),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// WriteCSV appends rows to the file at path, writing the header first only
// if the file does not already exist or is empty (§6: repeated runs
// accumulate history in one CSV).
func WriteCSV(path string, rows []Row) error {
	info, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("report: write header: %w", err)
		}
	}
	for _, r := range rows {
		if err := w.Write(r.toRecord()); err != nil {
			return fmt.Errorf("report: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// PrintText writes a human-readable summary of rows to w, one block per
// row, in the order given.
func PrintText(w io.Writer, rows []Row) error {
	for _, r := range rows {
		_, err := fmt.Fprintf(w,
			"[%s] workload=%s cc=%s threads=%d duration=%.2fs p_hot=%.2f hotset=%d\n"+
				"  committed=%d aborted=%d abort_rate=%.4f retries=%d retry_per_commit=%.4f\n"+
				"  lock_conflicts=%d validation_conflicts=%d\n"+
				"  throughput_tps=%.2f avg_commit_ms=%.4f avg_response_ms=%.4f p50_ms=%.4f p95_ms=%.4f p99_ms=%.4f\n",
			r.RowType, r.Workload, r.CC, r.Threads, r.DurationS, r.PHot, r.HotsetSize,
			r.Committed, r.Aborted, r.AbortRate, r.Retries, r.RetryPerCommit,
			r.LockConflicts, r.ValidationConflicts,
			r.ThroughputTPS, r.AvgCommitLatencyMS, r.AvgResponseLatencyMS,
			r.P50ResponseMS, r.P95ResponseMS, r.P99ResponseMS,
		)
		if err != nil {
			return err
		}
		if r.RowType == "overall" && r.Workload == "w1" {
			if _, err := fmt.Fprintf(w, "  balance_before=%d balance_after=%d\n", r.BalanceBefore, r.BalanceAfter); err != nil {
				return err
			}
		}
	}
	return nil
}
