package booking

import "errors"

// Sentinel kinds for booking errors.
var (
	ErrMissingDates   = errors.New("date range not selected")
	ErrInvalidDate    = errors.New("invalid date; must be YYYY-MM-DD")
	ErrInvalidClock   = errors.New("invalid time; must be HH:MM")
	ErrInvalidRequest = errors.New("invalid booking request")
)
