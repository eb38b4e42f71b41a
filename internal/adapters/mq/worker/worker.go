// Package worker delivers queued notifications through a Dispatcher.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/protecthire/protecthire/internal/domain/model"
	"github.com/protecthire/protecthire/pkg/logger"
	"github.com/protecthire/protecthire/pkg/metrics"
)

const (
	defaultWorkerCount     = 4
	defaultDispatchTimeout = 10 * time.Second
)

// Dispatcher delivers one notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, n model.Notification) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, n model.Notification) error

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, n model.Notification) error { //nolint:gocritic // hugeParam
	return f(ctx, n)
}

// Queue defines how workers receive notifications.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Notification
}

// Worker consumes notifications until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue drains.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for queued notifications.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue           Queue
	dispatcher      Dispatcher
	name            string
	dispatchTimeout time.Duration

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, d Dispatcher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:           q,
		dispatcher:      d,
		name:            "worker",
		dispatchTimeout: defaultDispatchTimeout,
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run implements Worker.Run.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case n, ok := <-items:
			if !ok {
				return
			}
			w.process(ctx, n)
		}
	}
}

// Shutdown implements Worker.Shutdown.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, n model.Notification) { //nolint:gocritic // hugeParam
	ctx, cancel := context.WithTimeout(ctx, w.dispatchTimeout)
	defer cancel()

	start := time.Now()
	err := w.dispatcher.Dispatch(ctx, n)
	metrics.RecordDispatch(string(n.Kind), float64(time.Since(start).Microseconds())/1000, err)
	if err != nil {
		w.logger.Error(ctx, "notification dispatch failed",
			logger.String("notification_id", n.ID),
			logger.String("kind", string(n.Kind)),
			logger.Error(err))
		return
	}
	w.logger.Debug(ctx, "notification dispatched",
		logger.String("notification_id", n.ID),
		logger.String("kind", string(n.Kind)))
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates count workers. count < 1 uses a small default.
func NewPool(count int, q Queue, d Dispatcher, l logger.Logger) *Pool {
	if count < 1 {
		count = defaultWorkerCount
	}
	if l == nil {
		l = logger.Nop()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, count),
		queue:   q,
		logger:  l.Named("worker-pool"),
	}
	for i := range count {
		p.workers[i] = NewInMemoryWorker(q, d,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(l))
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
}

// Shutdown closes the queue and lets workers drain it. Workers still busy
// when ctx expires are stopped without finishing the backlog.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			w.shutdownOnce.Do(func() { close(w.shutdown) })
		}
	}
	metrics.UpdateWorkerCount(0)
	if timedOut {
		return fmt.Errorf("worker pool drain: %w", ctx.Err())
	}
	return nil
}
