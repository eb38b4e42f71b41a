package api

import (
	"net/http"

	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/pkg/logger"
)

// BookingsHandler accepts booking requests.
type BookingsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewBookingsHandler creates a new bookings handler.
func NewBookingsHandler(deps Dependencies, log logger.Logger) *BookingsHandler {
	return &BookingsHandler{deps: deps, logger: log}
}

type bookingResponse struct {
	Reference string           `json:"reference"`
	Status    string           `json:"status"`
	Booking   booking.Request  `json:"booking"`
	Estimate  booking.Estimate `json:"estimate"`
}

// HandleSubmit handles POST /bookings. The request is forwarded to the
// guard and never stored, so success is 202.
func (h *BookingsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_booking"
	var form booking.Form
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req, est, err := h.deps.SubmitBooking(r.Context(), form)
	if err != nil {
		logFailure(r, h.logger, op, err)
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, bookingResponse{
		Reference: req.Reference,
		Status:    "requested",
		Booking:   req,
		Estimate:  est,
	})
}
