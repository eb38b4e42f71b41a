package notify

import "errors"

// ErrMalformed marks a notification that cannot be rendered.
var ErrMalformed = errors.New("malformed notification")
