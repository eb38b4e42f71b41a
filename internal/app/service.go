// Package service wires the guard directory, the booking estimator and the
// notification pipeline into the operations served by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/protecthire/protecthire/internal/adapters/mq/queue"
	"github.com/protecthire/protecthire/internal/adapters/mq/worker"
	"github.com/protecthire/protecthire/internal/adapters/notify"
	"github.com/protecthire/protecthire/internal/adapters/repository"
	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/dedupe"
	"github.com/protecthire/protecthire/internal/domain/guard"
	"github.com/protecthire/protecthire/internal/domain/model"
	"github.com/protecthire/protecthire/internal/seed"
	"github.com/protecthire/protecthire/pkg/logger"
	"github.com/protecthire/protecthire/pkg/metrics"
)

// Service implements the API dependencies for the guard marketplace.
type Service struct {
	mu sync.RWMutex

	// Core components
	directory *repository.MemoryDirectory
	backend   repository.Backend
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	pool      *worker.Pool

	// Configuration
	workerCount     int
	queueSize       int
	idempotencySize int
	seedOnEmpty     bool
	dispatchers     []worker.Dispatcher
	rating          guard.RatingSource
	now             func() time.Time
	shutdownTimeout time.Duration

	started bool
	logger  logger.Logger
}

// Stats is a point-in-time view for monitoring.
type Stats struct {
	Started         bool   `json:"started"`
	Guards          int    `json:"guards"`
	Backend         string `json:"backend"`
	QueueLength     int    `json:"queue_length"`
	QueueCapacity   int    `json:"queue_capacity"`
	Workers         int    `json:"workers"`
	IdempotencyKeys int64  `json:"idempotency_keys"`
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     4,
		queueSize:       1024,
		idempotencySize: 10000,
		rating:          guard.RandomStartRating,
		now:             time.Now,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the directory, seeds it when requested and starts the
// notification workers. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting guard service...")

	dirOpts := []repository.Option{repository.WithLogger(s.logger.Named("directory"))}
	if s.backend != nil {
		dirOpts = append(dirOpts, repository.WithBackend(s.backend))
	}
	s.directory = repository.NewMemoryDirectory(dirOpts...)
	if err := s.directory.Load(ctx); err != nil {
		return fmt.Errorf("load directory: %w", err)
	}
	if s.seedOnEmpty && s.directory.Count(ctx) == 0 {
		if err := s.seed(ctx); err != nil {
			return err
		}
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.idempotencySize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	dispatchers := s.dispatchers
	if len(dispatchers) == 0 {
		dispatchers = []worker.Dispatcher{notify.NewMailer(notify.LogSender{Log: s.logger.Named("mailer")})}
	}
	s.pool = worker.NewPool(s.workerCount, s.queue, notify.Fanout(toNotify(dispatchers)), s.logger)
	// Workers outlive the start request; Stop ends them.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "guard service started",
		logger.Int("guards", s.directory.Count(ctx)),
		logger.String("backend", s.backendName()),
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("idempotency_size", s.idempotencySize),
	)
	return nil
}

func toNotify(ds []worker.Dispatcher) []notify.Dispatcher {
	out := make([]notify.Dispatcher, len(ds))
	for i, d := range ds {
		out[i] = d
	}
	return out
}

func (s *Service) seed(ctx context.Context) error {
	roster, err := seed.Roster()
	if err != nil {
		return err
	}
	for _, p := range roster {
		if err := s.directory.Add(ctx, p); err != nil && !errors.Is(err, repository.ErrDuplicateID) {
			return fmt.Errorf("seed %s: %w", p.ID, err)
		}
	}
	s.logger.Info(ctx, "directory seeded", logger.Int("guards", len(roster)))
	return nil
}

func (s *Service) backendName() string {
	if s.backend == nil {
		return "memory"
	}
	return s.backend.Name()
}

// Stop drains the notification queue and closes the backend.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping guard service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "notification backlog not drained", logger.Error(err))
	}
	if err := s.directory.Close(); err != nil {
		s.logger.Error(ctx, "closing directory backend failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "guard service stopped")
}

func (s *Service) running() (*repository.MemoryDirectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.directory, nil
}

// Search returns guards matching c in insertion order.
func (s *Service) Search(ctx context.Context, c guard.Criteria) ([]guard.Profile, error) {
	dir, err := s.running()
	if err != nil {
		return nil, err
	}
	return dir.Search(ctx, c), nil
}

// Guard returns one profile or repository.ErrNotFound.
func (s *Service) Guard(ctx context.Context, id string) (guard.Profile, error) {
	dir, err := s.running()
	if err != nil {
		return guard.Profile{}, err
	}
	return dir.Get(ctx, id)
}

// RegisterGuard validates reg, adds the new profile and announces it.
// A non-empty key makes retries return the profile created first; replayed
// reports whether that happened.
func (s *Service) RegisterGuard(ctx context.Context, reg guard.Registration, key string) (p guard.Profile, replayed bool, err error) {
	dir, err := s.running()
	if err != nil {
		return guard.Profile{}, false, err
	}

	if key != "" {
		if s.deduper.SeenAndRecord(ctx, key) {
			if id, ok := s.deduper.Lookup(ctx, key); ok {
				if p, err := dir.Get(ctx, id); err == nil {
					metrics.RecordIdempotentReplay()
					metrics.RecordRegistration("replayed")
					return p, true, nil
				}
			}
			return guard.Profile{}, false, ErrInFlight
		}
		defer func() {
			if err != nil {
				s.deduper.Unrecord(ctx, key)
			}
		}()
	}

	id, err := uuid.NewV7()
	if err != nil {
		metrics.RecordRegistration("failed")
		return guard.Profile{}, false, fmt.Errorf("generate id: %w", err)
	}
	p, err = reg.Build(id.String(), s.rating, s.now())
	if err != nil {
		metrics.RecordRegistration("invalid")
		return guard.Profile{}, false, err
	}
	if err = dir.Add(ctx, p); err != nil {
		metrics.RecordRegistration("failed")
		return guard.Profile{}, false, err
	}
	if key != "" {
		s.deduper.Bind(ctx, key, p.ID)
	}
	metrics.RecordRegistration("created")

	s.logger.Info(ctx, "guard registered",
		logger.String("guard_id", p.ID),
		logger.String("role", string(p.Role)),
		logger.String("location", p.Location))

	n := model.Notification{ID: uuid.NewString(), Kind: model.KindGuardRegistered, Guard: p, CreatedAt: s.now().UTC()}
	if qerr := s.queue.Enqueue(ctx, n); qerr != nil {
		// The guard is already listed; only the welcome mail is lost.
		s.logger.Warn(ctx, "welcome notification dropped",
			logger.String("guard_id", p.ID), logger.Error(qerr))
	}
	return p, false, nil
}

// Estimate prices w for guard id.
func (s *Service) Estimate(ctx context.Context, id string, w booking.Window) (booking.Estimate, error) {
	p, err := s.Guard(ctx, id)
	if err != nil {
		return booking.Estimate{}, err
	}
	e := booking.Quote(p.Rates, w)
	metrics.RecordEstimate(string(e.Basis))
	return e, nil
}

// SubmitBooking validates f, prices it and queues the booking request for
// the guard. Nothing is stored. A full queue returns ErrBackpressure.
func (s *Service) SubmitBooking(ctx context.Context, f booking.Form) (booking.Request, booking.Estimate, error) {
	dir, err := s.running()
	if err != nil {
		return booking.Request{}, booking.Estimate{}, err
	}

	req, err := f.Request(uuid.NewString(), s.now())
	if err != nil {
		return booking.Request{}, booking.Estimate{}, err
	}
	p, err := dir.Get(ctx, req.GuardID)
	if err != nil {
		return booking.Request{}, booking.Estimate{}, err
	}
	est := booking.Quote(p.Rates, req.Window)
	metrics.RecordEstimate(string(est.Basis))

	n := model.Notification{
		ID:        uuid.NewString(),
		Kind:      model.KindBookingRequested,
		Guard:     p,
		Booking:   &req,
		Estimate:  &est,
		CreatedAt: s.now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, n); err != nil {
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			return booking.Request{}, booking.Estimate{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return booking.Request{}, booking.Estimate{}, err
	}
	metrics.RecordBookingSubmitted()

	s.logger.Info(ctx, "booking requested",
		logger.String("reference", req.Reference),
		logger.String("guard_id", p.ID),
		logger.Int("days", est.Days),
		logger.String("basis", string(est.Basis)))
	return req, est, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:       s.started,
		Backend:       s.backendName(),
		QueueCapacity: s.queueSize,
		Workers:       s.workerCount,
	}
	if s.started {
		ctx := context.Background()
		st.Guards = s.directory.Count(ctx)
		st.QueueLength = s.queue.Len(ctx)
		st.Workers = s.pool.Size()
		st.IdempotencyKeys = s.deduper.Size()

		metrics.UpdateDirectorySize(st.Guards)
		metrics.UpdateQueueSize(st.QueueLength)
	}
	return st
}
