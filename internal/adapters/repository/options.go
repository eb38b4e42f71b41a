package repository

import (
	"time"

	"github.com/protecthire/protecthire/pkg/logger"
)

// Option applies a configuration option to the MemoryDirectory.
type Option func(*MemoryDirectory)

// WithBackend attaches a durable backend. Every Add saves the full snapshot
// before the new profile becomes visible.
func WithBackend(b Backend) Option {
	return func(d *MemoryDirectory) {
		if b != nil {
			d.backend = b
		}
	}
}

// WithSaveTimeout bounds a single backend save.
func WithSaveTimeout(timeout time.Duration) Option {
	return func(d *MemoryDirectory) {
		if timeout > 0 {
			d.saveTimeout = timeout
		}
	}
}

// WithLogger sets the directory logger.
func WithLogger(l logger.Logger) Option {
	return func(d *MemoryDirectory) {
		if l != nil {
			d.log = l
		}
	}
}
