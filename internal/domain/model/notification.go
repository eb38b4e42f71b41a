// Package model contains domain messages passed between layers.
package model

import (
	"time"

	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
)

// Kind names what happened.
type Kind string

// Notification kinds.
const (
	KindGuardRegistered  Kind = "guard_registered"
	KindBookingRequested Kind = "booking_requested"
)

// Notification is emitted after a state change and fanned out to
// dispatchers (mail, websocket feed) by the worker pool.
type Notification struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"type"`
	Guard     guard.Profile     `json:"guard"`
	Booking   *booking.Request  `json:"booking,omitempty"`
	Estimate  *booking.Estimate `json:"estimate,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
