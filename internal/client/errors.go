package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds matched by APIError through errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBackpressure = errors.New("server busy")
	ErrUnavailable  = errors.New("service unavailable")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx response decoded from the {code, message} body.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// Unwrap maps the status to a sentinel kind.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusTooManyRequests:
		return ErrBackpressure
	case e.Status == http.StatusServiceUnavailable:
		return ErrUnavailable
	case e.Status >= http.StatusInternalServerError:
		return ErrServer
	case e.Status >= http.StatusBadRequest:
		return ErrBadRequest
	default:
		return nil
	}
}
