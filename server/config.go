package server

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration with environment variable support.
type Config struct {
	// Address the TCP listener binds to.
	Addr string `env:"LRUSTORE_ADDR" envDefault:":6379"`

	// Maximum number of cache entries.
	Capacity int `env:"LRUSTORE_CAPACITY" envDefault:"10000"`

	// Worker pool sizing.
	Workers   int `env:"LRUSTORE_WORKERS" envDefault:"50"`
	QueueSize int `env:"LRUSTORE_QUEUE_SIZE" envDefault:"1000"`

	// Grace period for in-flight connections during shutdown.
	ShutdownTimeout time.Duration `env:"LRUSTORE_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Destination for SAVE snapshots.
	SnapshotPath string `env:"LRUSTORE_SNAPSHOT_PATH" envDefault:"lrustore.dat"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":6379",
		Capacity:        10000,
		Workers:         DefaultWorkers,
		QueueSize:       DefaultQueueSize,
		ShutdownTimeout: DefaultShutdownTimeout,
		SnapshotPath:    "lrustore.dat",
	}
}

// LoadConfig parses Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
