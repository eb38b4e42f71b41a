package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Request is a client's ask to book a guard. It is never persisted.
type Request struct {
	Reference    string    `json:"reference"`
	GuardID      string    `json:"guard_id"`
	Window       Window    `json:"window"`
	Address      string    `json:"address"`
	Instructions string    `json:"instructions,omitempty"`
	ClientName   string    `json:"client_name,omitempty"`
	ClientEmail  string    `json:"client_email,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Form is the raw booking submission.
type Form struct {
	GuardID      string `json:"guard_id"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Address      string `json:"address"`
	Instructions string `json:"instructions,omitempty"`
	ClientName   string `json:"client_name,omitempty"`
	ClientEmail  string `json:"client_email,omitempty"`
}

// ParseWindow turns wire values into a Window. A missing end date means a
// single-day booking and missing times fall back to a 09:00-17:00 shift.
func ParseWindow(dateFrom, dateTo, startTime, endTime string) (Window, error) {
	if strings.TrimSpace(dateFrom) == "" {
		return Window{}, ErrMissingDates
	}
	if strings.TrimSpace(dateTo) == "" {
		dateTo = dateFrom
	}
	if startTime == "" {
		startTime = DefaultStartTime
	}
	if endTime == "" {
		endTime = DefaultEndTime
	}
	from, err := ParseDate(strings.TrimSpace(dateFrom))
	if err != nil {
		return Window{}, err
	}
	to, err := ParseDate(strings.TrimSpace(dateTo))
	if err != nil {
		return Window{}, err
	}
	start, err := ParseClock(strings.TrimSpace(startTime))
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(strings.TrimSpace(endTime))
	if err != nil {
		return Window{}, err
	}
	return Window{From: from, To: to, Start: start, End: end}, nil
}

// Request validates the form and returns the booking it describes.
func (f Form) Request(reference string, now time.Time) (Request, error) {
	var errs []error
	if strings.TrimSpace(f.GuardID) == "" {
		errs = append(errs, errors.New("guard_id is required"))
	}
	w, err := ParseWindow(f.DateFrom, f.DateTo, f.StartTime, f.EndTime)
	if err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(f.Address) == "" {
		errs = append(errs, errors.New("address is required"))
	}
	if len(errs) > 0 {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(errs...))
	}
	return Request{
		Reference:    reference,
		GuardID:      strings.TrimSpace(f.GuardID),
		Window:       w,
		Address:      strings.TrimSpace(f.Address),
		Instructions: strings.TrimSpace(f.Instructions),
		ClientName:   strings.TrimSpace(f.ClientName),
		ClientEmail:  strings.TrimSpace(f.ClientEmail),
		SubmittedAt:  now.UTC(),
	}, nil
}
