package guard

import "fmt"

// RateCard holds the optional prices a guard charges. A nil field means the
// guard does not offer that billing period.
type RateCard struct {
	Hourly  *float64 `json:"hourly,omitempty" yaml:"hourly,omitempty"`
	Daily   *float64 `json:"daily,omitempty" yaml:"daily,omitempty"`
	Monthly *float64 `json:"monthly,omitempty" yaml:"monthly,omitempty"`
}

// NewRateCard builds a RateCard, rejecting negative amounts.
func NewRateCard(hourly, daily, monthly *float64) (RateCard, error) {
	for name, v := range map[string]*float64{"hourly": hourly, "daily": daily, "monthly": monthly} {
		if v != nil && *v < 0 {
			return RateCard{}, fmt.Errorf("%w: %s=%v", ErrNegativeRate, name, *v)
		}
	}
	return RateCard{Hourly: copyRate(hourly), Daily: copyRate(daily), Monthly: copyRate(monthly)}, nil
}

// Rate returns a pointer to v, for building rate cards inline.
func Rate(v float64) *float64 { return &v }

// HourlyRate returns the hourly rate and whether it is set.
func (c RateCard) HourlyRate() (float64, bool) { return deref(c.Hourly) }

// DailyRate returns the daily rate and whether it is set.
func (c RateCard) DailyRate() (float64, bool) { return deref(c.Daily) }

// MonthlyRate returns the monthly rate and whether it is set.
func (c RateCard) MonthlyRate() (float64, bool) { return deref(c.Monthly) }

// Bookable reports whether at least one rate is present.
func (c RateCard) Bookable() bool {
	return c.Hourly != nil || c.Daily != nil || c.Monthly != nil
}

func (c RateCard) clone() RateCard {
	return RateCard{Hourly: copyRate(c.Hourly), Daily: copyRate(c.Daily), Monthly: copyRate(c.Monthly)}
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func copyRate(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
