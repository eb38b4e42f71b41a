package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/protecthire/protecthire/internal/adapters/mq/queue"
	"github.com/protecthire/protecthire/internal/adapters/mq/worker"
	"github.com/protecthire/protecthire/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	seen []string
	fail map[string]error
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{fail: make(map[string]error)}
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n model.Notification) error { //nolint:gocritic // hugeParam
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.fail[n.ID]; ok {
		return err
	}
	d.seen = append(d.seen, n.ID)
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		d := newRecordingDispatcher()
		w := worker.NewInMemoryWorker(q, d, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When notifications are queued", func() {
			for i := range 3 {
				convey.So(q.Enqueue(ctx, model.Notification{ID: fmt.Sprintf("n%d", i)}), convey.ShouldBeNil)
			}

			convey.Convey("Then each one is dispatched", func() {
				convey.So(waitFor(func() bool { return d.count() == 3 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a dispatch fails", func() {
			d.mu.Lock()
			d.fail["bad"] = errors.New("smtp unavailable")
			d.mu.Unlock()
			convey.So(q.Enqueue(ctx, model.Notification{ID: "bad"}), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, model.Notification{ID: "good"}), convey.ShouldBeNil)

			convey.Convey("Then the worker keeps going", func() {
				convey.So(waitFor(func() bool { return d.count() == 1 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then it stops and a second shutdown is harmless", func() {
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a cancelled context", t, func() {
		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, newRecordingDispatcher())
		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)
		cancel()

		convey.Convey("Then the worker stops", func() {
			select {
			case <-w.Done():
			case <-time.After(time.Second):
				convey.So("worker did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		d := newRecordingDispatcher()

		convey.Convey("When created with a non-positive count", func() {
			p := worker.NewPool(0, q, d, nil)

			convey.Convey("Then it falls back to the default size", func() {
				convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When processing and shutting down", func() {
			p := worker.NewPool(3, q, d, nil)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			p.Start(ctx)

			for i := range 50 {
				convey.So(q.Enqueue(ctx, model.Notification{ID: fmt.Sprintf("n%d", i)}), convey.ShouldBeNil)
			}

			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			err := p.Shutdown(sctx)

			convey.Convey("Then the backlog is drained before workers exit", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(d.count(), convey.ShouldEqual, 50)
			})

			convey.Convey("And the queue no longer accepts work", func() {
				convey.So(errors.Is(q.Enqueue(ctx, model.Notification{ID: "late"}), queue.ErrClosed), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDispatcherFunc(t *testing.T) {
	convey.Convey("A function can act as a dispatcher", t, func() {
		var got string
		d := worker.DispatcherFunc(func(_ context.Context, n model.Notification) error {
			got = n.ID
			return nil
		})
		convey.So(d.Dispatch(context.Background(), model.Notification{ID: "x"}), convey.ShouldBeNil)
		convey.So(got, convey.ShouldEqual, "x")
	})
}
