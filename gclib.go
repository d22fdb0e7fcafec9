package gclib

import (
	"fmt"
	"sync"

	"github.com/zephyrtronium/gclib/internal"
)

// Collector is one instance of the garbage collector: its own registry of
// attached mutators, allocation counters, and background worker. Most
// programs embed exactly one, either via New or through the package-level
// convenience functions (Init, Attach, Collect, ...), which operate on a
// lazily-created default Collector the way net/http's package-level
// functions operate on DefaultClient/DefaultServeMux.
type Collector struct {
	reg *internal.Registry
}

// New returns a ready-to-use Collector configured by cfg.
func New(cfg Config) (*Collector, error) {
	if cfg.HeapLimitBytes != 0 && cfg.HeapLimitBytes < minHeapLimitBytes {
		return nil, fmt.Errorf("gclib: heap limit %d below minimum %d: %w", cfg.HeapLimitBytes, minHeapLimitBytes, ErrInvalidConfiguration)
	}
	reg := internal.NewRegistry(internal.RegistryOptions{
		AllocLimit:       cfg.HeapLimitBytes,
		AutoCollectDelta: cfg.AutoCollectDeltaBytes,
		StartWorker:      cfg.StartWorker,
	})
	return &Collector{reg: reg}, nil
}

// Collect runs one synchronous collection cycle and returns the resulting
// AllocSize. If a collection is already in progress, it returns
// immediately with the current AllocSize.
func (c *Collector) Collect() uint64 { return c.reg.Collect() }

// CollectAsync wakes the background worker to perform a collection. It
// never blocks.
func (c *Collector) CollectAsync() { c.reg.CollectAsync() }

// AllocSize returns the current total size, in bytes, of all live blocks.
func (c *Collector) AllocSize() uint64 { return c.reg.AllocSize() }

// AllocLimit returns the configured auto-collect threshold.
func (c *Collector) AllocLimit() uint64 { return c.reg.AllocLimit() }

// SetAllocLimit installs a new auto-collect threshold.
func (c *Collector) SetAllocLimit(v uint64) { c.reg.SetAllocLimit(v) }

// ReadStats returns a snapshot of c's counters.
func (c *Collector) ReadStats() Stats {
	s := c.reg.ReadStats()
	return Stats{
		AllocSize:               s.AllocSize,
		AllocLimit:              s.AllocLimit,
		LastCollectionAllocSize: s.LastCollectionAllocSize,
		Cycles:                  s.Cycle,
		LastPauseDuration:       s.LastPause,
	}
}

// SetLogger installs l as c's diagnostics sink. Passing nil restores the
// no-op logger.
func (c *Collector) SetLogger(l Logger) { c.reg.SetLogger(l) }

// Close stops the background worker. It does not collect or invalidate any
// outstanding Mutator or Ptr[T].
func (c *Collector) Close() error {
	c.reg.StopWorker()
	return nil
}

var (
	defaultMu sync.Mutex
	defaultC  *Collector
)

// Init configures the package-level default Collector used by Attach,
// Collect, CollectAsync, AllocSize, AllocLimit, SetAllocLimit, ReadStats,
// and SetLogger. Calling it a second time returns ErrInvalidConfiguration;
// calling it is optional — the default Collector initializes itself with a
// zero Config (no allocation limit, no background worker) on first use.
func Init(cfg Config) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultC != nil {
		return fmt.Errorf("gclib: Init called more than once: %w", ErrInvalidConfiguration)
	}
	c, err := New(cfg)
	if err != nil {
		return err
	}
	defaultC = c
	return nil
}

func defaultCollector() *Collector {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultC == nil {
		// New(Config{}) cannot fail: zero HeapLimitBytes skips the
		// minimum-limit check entirely.
		defaultC, _ = New(Config{})
	}
	return defaultC
}

// Attach registers a new Mutator with the default Collector.
func Attach() *Mutator { return defaultCollector().Attach() }

// Collect runs one synchronous collection on the default Collector.
func Collect() uint64 { return defaultCollector().Collect() }

// CollectAsync wakes the default Collector's background worker.
func CollectAsync() { defaultCollector().CollectAsync() }

// AllocSize returns the default Collector's current allocation size.
func AllocSize() uint64 { return defaultCollector().AllocSize() }

// AllocLimit returns the default Collector's auto-collect threshold.
func AllocLimit() uint64 { return defaultCollector().AllocLimit() }

// SetAllocLimit installs a new auto-collect threshold on the default
// Collector.
func SetAllocLimit(v uint64) { defaultCollector().SetAllocLimit(v) }

// ReadStats snapshots the default Collector's counters.
func ReadStats() Stats { return defaultCollector().ReadStats() }

// SetLogger installs the default Collector's diagnostics sink.
func SetLogger(l Logger) { defaultCollector().SetLogger(l) }
