package gclib

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

// minHeapLimitBytes is the smallest allocation limit New accepts. A limit
// below this would make the auto-collect heuristic fire on nearly every
// allocation, which is almost always a configuration mistake rather than
// an intentional choice.
const minHeapLimitBytes = 4096

// Config configures a Collector. The zero value disables the allocation
// limit (no auto-collect heuristic) and leaves the background worker
// stopped.
type Config struct {
	// HeapLimitBytes is the alloc_size threshold past which the
	// auto-collect heuristic becomes eligible to fire. Zero disables it.
	HeapLimitBytes uint64 `yaml:"heap_limit_bytes"`
	// AutoCollectDeltaBytes is the minimum growth, since the last
	// collection, required before the heuristic actually schedules one.
	AutoCollectDeltaBytes uint64 `yaml:"auto_collect_delta_bytes"`
	// StartWorker starts the background async collection worker
	// immediately.
	StartWorker bool `yaml:"start_worker"`
}

// LoadConfig decodes a YAML document into a Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("gclib: decoding config: %w", err)
	}
	return cfg, nil
}
