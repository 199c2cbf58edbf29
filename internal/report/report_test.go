package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() Row {
	return Row{
		RowType: "overall", Template: "ALL", Workload: "w1", CC: "occ",
		Threads: 4, DurationS: 1.5, PHot: 0.2, HotsetSize: 2,
		Committed: 100, Aborted: 5, Retries: 10,
		LockConflicts: 1, ValidationConflicts: 4,
		AbortRate: 0.047, RetryPerCommit: 0.1,
		ThroughputTPS: 66.6, AvgCommitLatencyMS: 1.2, AvgResponseLatencyMS: 1.3,
		P50ResponseMS: 1.0, P95ResponseMS: 2.0, P99ResponseMS: 3.0,
		BalanceBefore: 400, BalanceAfter: 400,
	}
}

func TestWriteCSV_WritesHeaderOnlyOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")

	require.NoError(t, WriteCSV(path, []Row{sampleRow()}))
	require.NoError(t, WriteCSV(path, []Row{sampleRow()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3, "one header row plus two appended data rows")
	assert.Equal(t, Columns, records[0])
}

func TestWriteCSV_RoundTripsFieldsBackToARow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	row := sampleRow()
	require.NoError(t, WriteCSV(path, []Row{row}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, row.toRecord(), records[1])
}

func TestPrintText_IncludesBalanceOnlyForW1Overall(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{sampleRow()}
	require.NoError(t, PrintText(&buf, rows))
	assert.Contains(t, buf.String(), "balance_before=400")

	var buf2 bytes.Buffer
	tmplRow := sampleRow()
	tmplRow.RowType = "template"
	require.NoError(t, PrintText(&buf2, []Row{tmplRow}))
	assert.NotContains(t, buf2.String(), "balance_before")
}
