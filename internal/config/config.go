// Package config carries the execution-time tunables. The configuration
// rides on the program instead of living in process-wide globals.
package config

import (
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/goccy/go-yaml"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// ExecutionConfig tunes the execution engine.
type ExecutionConfig struct {
	// OverflowNull demotes arithmetic overflow to a NULL result instead
	// of raising NumericValueOutOfRange.
	OverflowNull bool `yaml:"overflowNull"`

	// QueueWaitInterval is the poll interval for safe-queue back-pressure.
	QueueWaitInterval time.Duration `yaml:"queueWaitInterval"`

	// QueueMaxSize bounds queue collections created without an explicit
	// size; -1 means unbounded.
	QueueMaxSize int `yaml:"queueMaxSize"`

	// ArenaChunkSize is the chunk size of collection arenas.
	ArenaChunkSize datasize.ByteSize `yaml:"arenaChunkSize"`

	// CollectionThreshold is the in-memory size above which the cost
	// model charges disk bandwidth for sorting.
	CollectionThreshold datasize.ByteSize `yaml:"collectionThreshold"`

	// MemoryTransferSpeed and FileTransferSpeed feed the cost model,
	// in bytes per second.
	MemoryTransferSpeed float64 `yaml:"memoryTransferSpeed"`
	FileTransferSpeed   float64 `yaml:"fileTransferSpeed"`

	// NormalizerResourceDir locates the normalizer rule tables.
	NormalizerResourceDir string `yaml:"normalizerResourceDir"`
}

// Default returns the built-in configuration.
func Default() *ExecutionConfig {
	return &ExecutionConfig{
		OverflowNull:        false,
		QueueWaitInterval:   100 * time.Millisecond,
		QueueMaxSize:        -1,
		ArenaChunkSize:      64 * datasize.KB,
		CollectionThreshold: 16 * datasize.MB,
		MemoryTransferSpeed: 4e9,
		FileTransferSpeed:   1e8,
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*ExecutionConfig, error) {
	cfg := Default()
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.BadArgument, err, "read config")
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, errors.Wrap(errors.BadArgument, err, "parse config")
	}
	return cfg, nil
}
