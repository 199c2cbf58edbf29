package ccbench

// driver.go implements the multi-threaded benchmark driver (§4.H): a pool
// of worker goroutines exercising a workload's templates uniformly under a
// time-bounded run, folding outcomes into per-worker and per-template
// stats that are merged only after join — no synchronization needed beyond
// the join itself and an atomic stop flag (§4.H Ordering).

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ccbench/ccbench/internal/logging"
)

// RunResult is the outcome of one Driver.Run call: overall stats merged
// across every worker, plus per-template stats merged by template name, and
// the measured wall-clock duration.
type RunResult struct {
	Overall   *Stats
	PerTmpl   map[string]*Stats
	WallTimeS float64
}

// Driver spawns config.Threads workers, each repeatedly picking a template
// uniformly, materializing its planned keys, and executing it through
// manager, until the run's duration elapses.
type Driver struct {
	storage  Storage
	workload Workload
	manager  *TxnManager
	config   RunConfig
	log      logging.Logger

	pickerOnce sync.Once
	picker     *KeyPicker
}

// NewDriver returns a driver exercising workload through manager under
// config, sampling keys out of storage. log may be nil, in which case
// logging.OrDefault substitutes a WARN-level logger writing to stderr.
func NewDriver(storage Storage, workload Workload, manager *TxnManager, config RunConfig, log logging.Logger) *Driver {
	return &Driver{storage: storage, workload: workload, manager: manager, config: config, log: logging.OrDefault(log)}
}

// splitmix64 is a fast, well-distributed mixing function used to derive
// per-thread seeds from (seed, threadIndex) so that runs are reproducible
// but threads don't share an RNG stream (§4.H).
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// keyPicker lazily builds and caches the KeyPicker over storage's key
// enumeration (done once per run, not once per attempt).
func (d *Driver) keyPicker() *KeyPicker {
	d.pickerOnce.Do(func() {
		d.picker = NewKeyPicker(d.storage.Keys(), d.config.PHot, d.config.HotsetSize)
	})
	return d.picker
}

// Run spawns the worker pool, blocks for config.DurationS, signals stop,
// and merges results (§4.H steps 1-5).
func (d *Driver) Run() RunResult {
	var stop atomic.Bool

	templates := d.workload.Templates()
	workerStats := make([]*Stats, d.config.Threads)
	workerTmplStats := make([]map[string]*Stats, d.config.Threads)

	var wg sync.WaitGroup
	for i := 0; i < d.config.Threads; i++ {
		workerStats[i] = NewStats()
		tmplStats := make(map[string]*Stats, len(templates))
		for _, t := range templates {
			tmplStats[t.Name] = NewStats()
		}
		workerTmplStats[i] = tmplStats

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			d.worker(idx, &stop, templates, workerStats[idx], workerTmplStats[idx])
		}(i)
	}

	start := time.Now()
	time.Sleep(time.Duration(d.config.DurationS * float64(time.Second)))
	stop.Store(true)
	wg.Wait()
	wallTime := time.Since(start).Seconds()

	overall := NewStats()
	perTmpl := make(map[string]*Stats, len(templates))
	for _, t := range templates {
		perTmpl[t.Name] = NewStats()
	}
	for i := 0; i < d.config.Threads; i++ {
		overall.Merge(workerStats[i])
		for name, s := range workerTmplStats[i] {
			perTmpl[name].Merge(s)
		}
		d.log.Infof("worker %d stopped: committed=%d aborted=%d", i, workerStats[i].Committed, workerStats[i].Aborted)
	}

	return RunResult{Overall: overall, PerTmpl: perTmpl, WallTimeS: wallTime}
}

// worker runs the per-thread loop described in §4.H step 3: pick a
// template uniformly, materialize its keys, execute it, and fold the
// result into both the worker's overall stats and that template's stats.
// The stop flag is only checked between transactions, never mid-attempt
// (§5).
func (d *Driver) worker(idx int, stop *atomic.Bool, templates []*Template, overall *Stats, perTmpl map[string]*Stats) {
	rng := rand.New(rand.NewSource(int64(splitmix64(d.config.Seed ^ uint64(idx)))))
	picker := d.keyPicker()
	d.log.Infof("worker %d started", idx)

	for !stop.Load() {
		tmpl := templates[rng.Intn(len(templates))]

		keys, err := tmpl.PickKeys(picker, rng)
		if err != nil {
			d.log.Debugf("worker %d: pick_keys for %s failed: %v", idx, tmpl.Name, err)
			continue
		}

		res := d.manager.Execute(tmpl.Run, keys, rng)
		overall.AddResult(res)
		perTmpl[tmpl.Name].AddResult(res)
	}
}
