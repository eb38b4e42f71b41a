package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/protecthire/protecthire/internal/adapters/mq/worker"
	"github.com/protecthire/protecthire/internal/adapters/persistence"
	service "github.com/protecthire/protecthire/internal/app"
	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
	"github.com/protecthire/protecthire/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	mu   sync.Mutex
	seen []model.Notification
}

func (r *recorder) Dispatch(_ context.Context, n model.Notification) error { //nolint:gocritic // hugeParam
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
	return nil
}

func (r *recorder) kinds() []model.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Kind, len(r.seen))
	for i, n := range r.seen {
		out[i] = n.Kind
	}
	return out
}

func (r *recorder) waitFor(n int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(r.kinds()) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service persisting to a file", t, func() {
		path := filepath.Join(t.TempDir(), "guards.json")
		backend, err := persistence.NewFileBackend(path)
		So(err, ShouldBeNil)

		rec := &recorder{}
		svc := started(
			service.WithBackend(backend),
			service.WithWorkerCount(1),
			service.WithDispatchers(rec),
		)
		ctx := context.Background()

		Convey("When a guard registers and a client books them", func() {
			p, _, err := svc.RegisterGuard(ctx, registration("Kavya Iyer"), "")
			So(err, ShouldBeNil)

			req, est, err := svc.SubmitBooking(ctx, booking.Form{
				GuardID:     p.ID,
				DateFrom:    "2026-06-10",
				StartTime:   "20:00",
				EndTime:     "02:00",
				Address:     " 12 Marine Drive ",
				ClientEmail: "client@example.com",
			})
			So(err, ShouldBeNil)
			So(req.Reference, ShouldNotBeEmpty)
			So(req.Address, ShouldEqual, "12 Marine Drive")
			So(est.Basis, ShouldEqual, booking.BasisHourly)
			So(est.HoursPerDay, ShouldEqual, 6)
			So(est.Cost, ShouldEqual, 3600)

			Convey("Then both notifications are dispatched in order", func() {
				So(rec.waitFor(2), ShouldBeTrue)
				So(rec.kinds(), ShouldResemble, []model.Kind{model.KindGuardRegistered, model.KindBookingRequested})
			})

			Convey("Then the guard survives a restart", func() {
				svc.Stop()

				reopened, err := persistence.NewFileBackend(path)
				So(err, ShouldBeNil)
				again := started(service.WithBackend(reopened), service.WithSeedOnEmpty(true))
				defer again.Stop()

				got, err := again.Guard(ctx, p.ID)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Kavya Iyer")
				So(again.GetStats().Guards, ShouldEqual, 1)
				So(again.GetStats().Backend, ShouldEqual, persistence.BackendFile)
			})
		})

		Convey("When a booking is incomplete", func() {
			_, _, err := svc.SubmitBooking(ctx, booking.Form{GuardID: "x"})
			So(errors.Is(err, booking.ErrInvalidRequest), ShouldBeTrue)
			So(rec.waitFor(1), ShouldBeFalse)
		})

		Convey("When the booked guard does not exist", func() {
			_, _, err := svc.SubmitBooking(ctx, booking.Form{GuardID: "ghost", DateFrom: "2026-06-10", Address: "Somewhere"})
			So(err, ShouldNotBeNil)
			So(errors.Is(err, booking.ErrInvalidRequest), ShouldBeFalse)
		})

		Reset(func() {
			svc.Stop()
		})
	})
}

func TestServiceBackpressure(t *testing.T) {
	Convey("Given a single blocked worker and a one-slot queue", t, func() {
		release := make(chan struct{})
		blocking := worker.DispatcherFunc(func(ctx context.Context, _ model.Notification) error {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil
		})
		svc := started(
			service.WithSeedOnEmpty(true),
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
			service.WithDispatchers(blocking),
		)

		Convey("Submitting bookings eventually reports backpressure", func() {
			form := booking.Form{GuardID: "1", DateFrom: "2026-07-01", Address: "Bandra West"}
			var rejected int
			for range 10 {
				_, _, err := svc.SubmitBooking(context.Background(), form)
				if errors.Is(err, service.ErrBackpressure) {
					rejected++
				} else {
					So(err, ShouldBeNil)
				}
			}
			So(rejected, ShouldBeGreaterThan, 0)
		})

		Reset(func() {
			close(release)
			svc.Stop()
		})
	})
}

func TestServiceConcurrentRegistration(t *testing.T) {
	Convey("Given concurrent registrations sharing one key", t, func() {
		svc := started()
		defer svc.Stop()

		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = map[string]bool{}
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p, _, err := svc.RegisterGuard(context.Background(), registration("Arjun Nair"), "shared")
				if err == nil {
					mu.Lock()
					ids[p.ID] = true
					mu.Unlock()
				} else if !errors.Is(err, service.ErrInFlight) {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		So(len(ids), ShouldEqual, 1)
		all, err := svc.Search(context.Background(), guard.Criteria{})
		So(err, ShouldBeNil)
		So(len(all), ShouldEqual, 1)
	})
}
