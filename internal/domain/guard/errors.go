package guard

import "errors"

// Sentinel kinds for guard model errors.
var (
	ErrUnknownRole         = errors.New("unknown role")
	ErrUnknownGender       = errors.New("unknown gender")
	ErrNegativeRate        = errors.New("rate must not be negative")
	ErrInvalidRegistration = errors.New("invalid registration")
)
