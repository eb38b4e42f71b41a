package service

import (
	"time"

	"github.com/protecthire/protecthire/internal/adapters/mq/worker"
	"github.com/protecthire/protecthire/internal/adapters/repository"
	"github.com/protecthire/protecthire/internal/domain/guard"
	"github.com/protecthire/protecthire/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of notification workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the notification queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithIdempotencySize bounds the idempotency key cache.
func WithIdempotencySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.idempotencySize = size
		}
	}
}

// WithBackend persists the directory through b.
func WithBackend(b repository.Backend) Option {
	return func(s *Service) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithSeedOnEmpty loads the starter roster when the directory is empty.
func WithSeedOnEmpty(enabled bool) Option {
	return func(s *Service) {
		s.seedOnEmpty = enabled
	}
}

// WithDispatchers replaces the default mailer with ds.
func WithDispatchers(ds ...worker.Dispatcher) Option {
	return func(s *Service) {
		if len(ds) > 0 {
			s.dispatchers = ds
		}
	}
}

// WithRatingSource sets how new guards get their starting rating.
func WithRatingSource(src guard.RatingSource) Option {
	return func(s *Service) {
		if src != nil {
			s.rating = src
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for the notification backlog.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}
