// ccbench runs the transactional key-value concurrency-control benchmark:
// it loads an input file into storage, validates a workload file against
// the chosen workload's template arity, runs the multi-threaded driver for
// a fixed duration, and prints (and optionally appends to CSV) the
// resulting stats.
//
// Usage: go run ./cmd/ccbench [flags]
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/ccbench/ccbench"
	"github.com/ccbench/ccbench/internal/compression"
	"github.com/ccbench/ccbench/internal/logging"
	"github.com/ccbench/ccbench/internal/parse"
	"github.com/ccbench/ccbench/internal/report"
)

var (
	inputPath    = flag.String("input", "", "Path to the input file seeding storage (required)")
	workloadPath = flag.String("workload", "", "Path to the workload file declaring template arity (required)")
	workloadName = flag.String("workload_name", "w1", "Workload to run: w1 (transfer) or w2 (TPC-C-mini)")
	storageMode  = flag.String("storage", "inmem", "Storage backend: inmem or rocksdb")
	dbPath       = flag.String("db_path", "", "Snapshot file path (required when -storage=rocksdb)")
	ccName       = flag.String("cc", "occ", "Concurrency control strategy: no_cc, occ, or c2pl")
	threads      = flag.Int("threads", 4, "Number of concurrent worker threads")
	duration     = flag.Float64("duration", 1.0, "Run duration in seconds")
	pHot         = flag.Float64("p_hot", 0.0, "Probability of sampling from the hot key set")
	hotsetSize   = flag.Int("hotset_size", 0, "Number of keys (by sorted order) in the hot set")
	seed         = flag.Uint64("seed", 1, "Random seed; worker streams are derived from it deterministically")
	maxRetries   = flag.Uint("max_retries", 5, "Maximum retries per transaction attempt")
	backoffUs    = flag.Uint("backoff_us", 100, "Backoff bound in microseconds (0 disables backoff sleeping)")
	csvPath      = flag.String("csv", "", "If set, append this run's CSV rows (one overall row plus one per template) to this path")
	verbose      = flag.Bool("v", false, "Enable debug-level logging to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ccbench -input FILE -workload FILE [flags]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logging.NewDefaultLogger(logging.LevelInfo)
	if *verbose {
		log = logging.NewDefaultLogger(logging.LevelDebug)
	}
	log.SetFatalHandler(func(msg string) {
		fmt.Fprintf(os.Stderr, "ccbench: %s\n", msg)
		os.Exit(1)
	})

	config, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ccbench: %v\n", err)
		os.Exit(2)
	}

	if err := run(config, log); err != nil {
		log.Fatalf("%v", err)
	}
}

// buildConfig assembles and validates a RunConfig from flags, reporting CLI
// misuse (exit code 2) separately from a later runtime failure (exit 1).
func buildConfig() (ccbench.RunConfig, error) {
	if *inputPath == "" || *workloadPath == "" {
		return ccbench.RunConfig{}, fmt.Errorf("-input and -workload are required")
	}

	config := ccbench.DefaultRunConfig()
	config.Threads = *threads
	config.DurationS = *duration
	config.PHot = *pHot
	config.HotsetSize = *hotsetSize
	config.Seed = *seed
	config.MaxRetries = uint32(*maxRetries)
	config.BackoffUs = uint32(*backoffUs)
	config.WorkloadName = *workloadName
	config.InputPath = *inputPath
	config.WorkloadPath = *workloadPath
	config.DBPath = *dbPath
	config.CSVPath = *csvPath

	switch *storageMode {
	case "inmem":
		config.StorageMode = ccbench.StorageInMem
	case "rocksdb":
		config.StorageMode = ccbench.StorageRocksDB
	default:
		return ccbench.RunConfig{}, fmt.Errorf("unknown -storage %q (want inmem or rocksdb)", *storageMode)
	}

	switch *ccName {
	case "no_cc":
		config.CCMode = ccbench.CCNoCC
	case "occ":
		config.CCMode = ccbench.CCOCC
	case "c2pl":
		config.CCMode = ccbench.CCC2PL
	default:
		return ccbench.RunConfig{}, fmt.Errorf("unknown -cc %q (want no_cc, occ, or c2pl)", *ccName)
	}

	if err := config.Validate(); err != nil {
		return ccbench.RunConfig{}, err
	}
	return config, nil
}

// run wires storage, workload, concurrency control, and the driver
// together per config, then reports the outcome.
func run(config ccbench.RunConfig, log logging.Logger) error {
	storage, closeStorage, err := openStorage(config, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStorage()

	if err := loadInput(storage, config.InputPath); err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	balanceBefore := storage.SumIntField("balance")

	templates, err := loadWorkloadFile(config.WorkloadPath)
	if err != nil {
		return fmt.Errorf("load workload: %w", err)
	}
	if err := parse.CheckArity(config.WorkloadName, templates); err != nil {
		return err
	}

	workload, err := buildWorkload(config.WorkloadName)
	if err != nil {
		return err
	}
	if err := workload.Prepare(storage); err != nil {
		return fmt.Errorf("prepare workload: %w", err)
	}

	strategy := buildStrategy(config.CCMode)
	ids := ccbench.NewTxnIDGenerator()
	manager := ccbench.NewTxnManager(storage, strategy, ids, config.MaxRetries, config.BackoffUs)
	driver := ccbench.NewDriver(storage, workload, manager, config, log)

	log.Infof("%sstarting run: workload=%s cc=%s threads=%d duration=%.2fs", logging.NSBench, workload.Name(), strategy.Name(), config.Threads, config.DurationS)
	result := driver.Run()

	balanceAfter := storage.SumIntField("balance")

	rows := buildReportRows(config, workload.Name(), strategy.Name(), result, balanceBefore, balanceAfter)
	if err := report.PrintText(os.Stdout, rows); err != nil {
		return fmt.Errorf("print report: %w", err)
	}
	if config.CSVPath != "" {
		if err := report.WriteCSV(config.CSVPath, rows); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	return nil
}

// openStorage returns the configured Storage plus a close function (a
// no-op for in-memory storage, a flushing close for the persistent
// backend).
func openStorage(config ccbench.RunConfig, log logging.Logger) (ccbench.Storage, func() error, error) {
	switch config.StorageMode {
	case ccbench.StorageInMem:
		return ccbench.NewInMemoryStorage(), func() error { return nil }, nil
	case ccbench.StorageRocksDB:
		store, err := ccbench.OpenPersistentStorage(ccbench.PersistentStorageOptions{
			Path:        config.DBPath,
			Compression: compression.ZstdCompression,
			Logger:      log,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unreachable storage mode %v", config.StorageMode)
	}
}

// loadInput parses the §6 input grammar and bulk-loads storage with it.
func loadInput(storage ccbench.Storage, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := parse.ParseInput(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	items := make([]ccbench.BulkItem, 0, len(records))
	for _, r := range records {
		items = append(items, ccbench.BulkItem{Key: r.Key, Fields: r.Fields})
	}
	storage.BulkLoad(items)
	return nil
}

// loadWorkloadFile parses the §6 workload grammar.
func loadWorkloadFile(path string) ([]parse.WorkloadTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	templates, err := parse.ParseWorkload(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return templates, nil
}

func buildWorkload(name string) (ccbench.Workload, error) {
	switch name {
	case "w1":
		return ccbench.NewTransferWorkload(), nil
	case "w2":
		return ccbench.NewTPCCWorkload(), nil
	default:
		return nil, fmt.Errorf("unknown workload_name %q", name)
	}
}

func buildStrategy(mode ccbench.CCMode) ccbench.CCStrategy {
	switch mode {
	case ccbench.CCNoCC:
		return ccbench.NewNoCCStrategy()
	case ccbench.CCC2PL:
		return ccbench.NewC2PLStrategy(ccbench.NewLockManager())
	default:
		return ccbench.NewOCCStrategy()
	}
}

// buildReportRows assembles one "overall" row and one "template" row per
// template from a driver run (§6 CSV/text layout).
func buildReportRows(config ccbench.RunConfig, workloadName, ccName string, result ccbench.RunResult, balanceBefore, balanceAfter int64) []report.Row {
	rows := []report.Row{statsRow("overall", "ALL", workloadName, ccName, config, result.Overall)}
	rows[0].BalanceBefore = balanceBefore
	rows[0].BalanceAfter = balanceAfter

	names := make([]string, 0, len(result.PerTmpl))
	for name := range result.PerTmpl {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, statsRow("template", name, workloadName, ccName, config, result.PerTmpl[name]))
	}
	return rows
}

func statsRow(rowType, template, workloadName, ccName string, config ccbench.RunConfig, s *ccbench.Stats) report.Row {
	committed := s.Committed
	throughput := 0.0
	if config.DurationS > 0 {
		throughput = float64(committed) / config.DurationS
	}
	return report.Row{
		RowType:              rowType,
		Template:             template,
		Workload:             workloadName,
		CC:                   ccName,
		Threads:              config.Threads,
		DurationS:            config.DurationS,
		PHot:                 config.PHot,
		HotsetSize:           config.HotsetSize,
		Committed:            s.Committed,
		Aborted:              s.Aborted,
		Retries:              s.Retries,
		LockConflicts:        s.LockConflicts,
		ValidationConflicts:  s.ValidationConflicts,
		AbortRate:            s.AbortRate(),
		RetryPerCommit:       s.RetryPerCommit(),
		ThroughputTPS:        throughput,
		AvgCommitLatencyMS:   s.AvgCommitLatencyS() * 1000,
		AvgResponseLatencyMS: s.AvgResponseLatencyS() * 1000,
		P50ResponseMS:        ccbench.Percentile(s.ResponseLatenciesS, 0.50) * 1000,
		P95ResponseMS:        ccbench.Percentile(s.ResponseLatenciesS, 0.95) * 1000,
		P99ResponseMS:        ccbench.Percentile(s.ResponseLatenciesS, 0.99) * 1000,
	}
}

