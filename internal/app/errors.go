package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("notification queue full")
	ErrInFlight     = errors.New("request with this idempotency key is still in progress")
)
