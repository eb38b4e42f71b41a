package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/protecthire/protecthire/internal/adapters/repository"
	service "github.com/protecthire/protecthire/internal/app"
	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
)

// ErrBadRequest marks malformed input rejected before reaching the service.
var ErrBadRequest = errors.New("bad request")

// WrapKind tags err with the operation that failed and the API kind.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind reports kind for op without an underlying cause.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps an error to its HTTP status and machine-readable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, guard.ErrInvalidRegistration),
		errors.Is(err, booking.ErrInvalidRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrInFlight), errors.Is(err, repository.ErrDuplicateID):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, repository.ErrPersist):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status its kind maps to.
func fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		// Internal causes stay in the log.
		writeError(w, status, code, nil)
		return
	}
	writeError(w, status, code, err)
}
