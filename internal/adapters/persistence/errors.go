package persistence

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrMissingSetting = errors.New("missing storage setting")
	ErrCorruptData    = errors.New("corrupt stored profile")
)
