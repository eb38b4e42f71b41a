package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrFull   = errors.New("notification queue full")
	ErrClosed = errors.New("notification queue closed")
)
