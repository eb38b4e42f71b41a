// Package booking computes advisory price estimates for guard bookings.
package booking

import (
	"fmt"
	"time"
)

// Wire formats for dates and clock times.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"

	hoursPerDayCycle = 24
	secondsPerDay    = 24 * 60 * 60
)

// Date is a calendar date without a time of day.
type Date struct {
	t time.Time
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t: t}, nil
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format(DateLayout) }

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Clock is a time of day with minute precision.
type Clock struct {
	minutes int
}

// ParseClock parses HH:MM in 24h form.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{minutes: t.Hour()*60 + t.Minute()}, nil
}

// MustClock is ParseClock for literals.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Window is the requested service period: an inclusive date range and a
// daily shift that may wrap past midnight.
type Window struct {
	From  Date  `json:"date_from"`
	To    Date  `json:"date_to"`
	Start Clock `json:"start_time"`
	End   Clock `json:"end_time"`
}

// Days is the inclusive number of calendar days covered by the window.
// The order of From and To does not matter.
func (w Window) Days() int {
	// Unix seconds, not Sub: a Duration saturates after ~292 years.
	diff := (w.To.t.Unix() - w.From.t.Unix()) / secondsPerDay
	if diff < 0 {
		diff = -diff
	}
	return int(diff) + 1
}

// HoursPerDay is the shift length. A shift ending before it starts crosses
// midnight, so 22:00-06:00 is eight hours.
func (w Window) HoursPerDay() float64 {
	h := float64(w.End.minutes-w.Start.minutes) / 60
	if h < 0 {
		h += hoursPerDayCycle
	}
	return h
}
