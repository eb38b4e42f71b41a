package booking

import (
	"math"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

// fullShiftHours is the shift length from which a daily rate may apply.
const fullShiftHours = 8

// Basis tells which rate produced an estimate.
type Basis string

// Estimate bases. BasisUnpriced means the guard has no usable rate and the
// cost must be read as "contact for rate", not as free.
const (
	BasisDaily    Basis = "daily"
	BasisHourly   Basis = "hourly"
	BasisUnpriced Basis = "unpriced"
)

// Estimate is an advisory quote. It is never a binding charge.
type Estimate struct {
	Cost        float64 `json:"cost"`
	Basis       Basis   `json:"basis"`
	Days        int     `json:"days"`
	HoursPerDay float64 `json:"hours_per_day"`
	TotalHours  float64 `json:"total_hours"`
}

// Priced reports whether the cost came from an actual rate.
func (e Estimate) Priced() bool { return e.Basis != BasisUnpriced }

// Quote prices w against rates.
//
// A daily rate wins when the shift is at least a full day's work and the
// daily rate undercuts the hourly cost of the same shift; a missing hourly
// rate counts as infinitely expensive. Otherwise hourly billing applies,
// falling back to the daily rate, and finally to an unpriced zero. A zero
// rate is treated as not offered.
func Quote(rates guard.RateCard, w Window) Estimate {
	days := w.Days()
	hours := w.HoursPerDay()
	e := Estimate{
		Basis:       BasisUnpriced,
		Days:        days,
		HoursPerDay: hours,
		TotalHours:  float64(days) * hours,
	}

	hourly, hasHourly := rates.HourlyRate()
	daily, hasDaily := rates.DailyRate()
	hasHourly = hasHourly && hourly > 0
	hasDaily = hasDaily && daily > 0

	hourlyShiftCost := math.Inf(1)
	if hasHourly {
		hourlyShiftCost = hourly * hours
	}

	switch {
	case hasDaily && hours >= fullShiftHours && daily < hourlyShiftCost:
		e.Basis, e.Cost = BasisDaily, daily*float64(days)
	case hasHourly:
		e.Basis, e.Cost = BasisHourly, e.TotalHours*hourly
	case hasDaily:
		e.Basis, e.Cost = BasisDaily, daily*float64(days)
	}
	return e
}
