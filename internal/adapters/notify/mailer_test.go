package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/protecthire/protecthire/internal/adapters/notify"
	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
	"github.com/protecthire/protecthire/internal/domain/model"
	"github.com/protecthire/protecthire/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type captureSender struct {
	sent []notify.Message
	err  error
}

func (c *captureSender) Send(_ context.Context, m notify.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m)
	return nil
}

func sampleGuard() guard.Profile {
	return guard.Profile{ID: "g-7", Name: "Priya Patel", Role: guard.RoleEventSecurity, Location: "Bengaluru, KA"}
}

func bookingNotification(clientEmail string) model.Notification {
	day := booking.NewDate(2026, time.April, 2)
	est := booking.Estimate{Cost: 4000, Basis: booking.BasisHourly, Days: 1, HoursPerDay: 8, TotalHours: 8}
	return model.Notification{
		ID:    "n-2",
		Kind:  model.KindBookingRequested,
		Guard: sampleGuard(),
		Booking: &booking.Request{
			Reference:   "ref-9",
			GuardID:     "g-7",
			Window:      booking.Window{From: day, To: day, Start: booking.MustClock("09:00"), End: booking.MustClock("17:00")},
			Address:     "1 MG Road",
			ClientName:  "Acme Events",
			ClientEmail: clientEmail,
		},
		Estimate: &est,
	}
}

func TestRender(t *testing.T) {
	Convey("Given a registration notification", t, func() {
		msgs, err := notify.Render(model.Notification{Kind: model.KindGuardRegistered, Guard: sampleGuard()})

		Convey("Then a welcome email is addressed to the guard", func() {
			So(err, ShouldBeNil)
			So(msgs, ShouldHaveLength, 1)
			So(msgs[0].To, ShouldEqual, "guard:g-7")
			So(msgs[0].Subject, ShouldEqual, "Welcome to ProtectHire!")
			So(msgs[0].Body, ShouldContainSubstring, "Hello Priya Patel")
			So(msgs[0].Body, ShouldContainSubstring, "Event Security profile in Bengaluru, KA")
		})
	})

	Convey("Given a booking notification", t, func() {
		Convey("With a client email both parties are notified", func() {
			msgs, err := notify.Render(bookingNotification("ops@acme.test"))
			So(err, ShouldBeNil)
			So(msgs, ShouldHaveLength, 2)
			So(msgs[0].Body, ShouldContainSubstring, "from Acme Events")
			So(msgs[0].Body, ShouldContainSubstring, "2026-04-02 to 2026-04-02")
			So(msgs[0].Body, ShouldContainSubstring, "09:00 - 17:00")
			So(msgs[0].Body, ShouldContainSubstring, "4000.00 (hourly, 1 day(s))")
			So(msgs[1].To, ShouldEqual, "ops@acme.test")
		})

		Convey("Without a client email only the guard is notified", func() {
			msgs, err := notify.Render(bookingNotification(""))
			So(err, ShouldBeNil)
			So(msgs, ShouldHaveLength, 1)
		})

		Convey("An unpriced estimate is left out", func() {
			n := bookingNotification("")
			n.Estimate = &booking.Estimate{Basis: booking.BasisUnpriced, Days: 1}
			msgs, err := notify.Render(n)
			So(err, ShouldBeNil)
			So(msgs[0].Body, ShouldNotContainSubstring, "Estimate:")
		})
	})

	Convey("Malformed notifications are rejected", t, func() {
		_, err := notify.Render(model.Notification{Kind: model.KindBookingRequested})
		So(errors.Is(err, notify.ErrMalformed), ShouldBeTrue)

		_, err = notify.Render(model.Notification{Kind: "unknown"})
		So(errors.Is(err, notify.ErrMalformed), ShouldBeTrue)
	})
}

func TestMailer(t *testing.T) {
	Convey("Given a mailer", t, func() {
		sender := &captureSender{}
		m := notify.NewMailer(sender)

		Convey("Rendered messages are handed to the sender", func() {
			So(m.Dispatch(context.Background(), bookingNotification("ops@acme.test")), ShouldBeNil)
			So(sender.sent, ShouldHaveLength, 2)
		})

		Convey("Sender failures are returned", func() {
			sender.err = errors.New("relay down")
			err := m.Dispatch(context.Background(), model.Notification{Kind: model.KindGuardRegistered, Guard: sampleGuard()})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "relay down")
		})
	})
}

type dispatchFunc func(context.Context, model.Notification) error

func (f dispatchFunc) Dispatch(ctx context.Context, n model.Notification) error { return f(ctx, n) }

func TestFanout(t *testing.T) {
	Convey("Given a fanout over two dispatchers", t, func() {
		calls := 0
		ok := dispatchFunc(func(context.Context, model.Notification) error { calls++; return nil })
		bad := dispatchFunc(func(context.Context, model.Notification) error { calls++; return errors.New("boom") })

		Convey("Every dispatcher runs even after a failure", func() {
			err := notify.Fanout{bad, ok}.Dispatch(context.Background(), model.Notification{})
			So(err, ShouldNotBeNil)
			So(calls, ShouldEqual, 2)
		})

		Convey("No failures yields nil", func() {
			So(notify.Fanout{ok, ok}.Dispatch(context.Background(), model.Notification{}), ShouldBeNil)
		})
	})
}

func TestLogSender(t *testing.T) {
	Convey("LogSender never fails", t, func() {
		So(notify.LogSender{Log: nopLogger()}.Send(context.Background(), notify.Message{To: "x"}), ShouldBeNil)
	})
}

func nopLogger() logger.Logger { return logger.Nop() }
