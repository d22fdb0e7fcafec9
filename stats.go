package gclib

import "time"

// Stats is a point-in-time snapshot of a Collector's counters.
type Stats struct {
	// AllocSize is the current total size, in bytes, of all live blocks.
	AllocSize uint64
	// AllocLimit is the configured auto-collect threshold.
	AllocLimit uint64
	// LastCollectionAllocSize is AllocSize as of the end of the most
	// recent Collect.
	LastCollectionAllocSize uint64
	// Cycles is the number of completed collection cycles.
	Cycles uint64
	// LastPauseDuration is how long the most recent collection held the
	// freeze (every mutator mutex in collector mode).
	LastPauseDuration time.Duration
}
