package api

import (
	"net/http"
	"strings"

	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
	"github.com/protecthire/protecthire/pkg/logger"
)

// GuardsHandler serves the guard directory.
type GuardsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewGuardsHandler creates a new guards handler.
func NewGuardsHandler(deps Dependencies, log logger.Logger) *GuardsHandler {
	return &GuardsHandler{deps: deps, logger: log}
}

type searchResponse struct {
	Guards []guard.Profile `json:"guards"`
	Count  int             `json:"count"`
}

type estimateResponse struct {
	GuardID   string            `json:"guard_id"`
	Available bool              `json:"available"`
	Window    *booking.Window   `json:"window,omitempty"`
	Estimate  *booking.Estimate `json:"estimate,omitempty"`
}

// HandleSearch handles GET /guards.
func (h *GuardsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_guards"
	c, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}
	guards, err := h.deps.Search(r.Context(), c)
	if err != nil {
		h.fail(r, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Guards: guards, Count: len(guards)})
}

// HandleRegister handles POST /guards.
func (h *GuardsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_guard"
	var reg guard.Registration
	if err := decodeJSON(w, r, &reg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	p, replayed, err := h.deps.RegisterGuard(r.Context(), reg, key)
	if err != nil {
		h.fail(r, w, op, err)
		return
	}
	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
		writeJSON(w, http.StatusOK, p)
		return
	}
	w.Header().Set("Location", "/guards/"+p.ID)
	writeJSON(w, http.StatusCreated, p)
}

// HandleGet handles GET /guards/{id}.
func (h *GuardsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_guard"
	p, err := h.deps.Guard(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleEstimate handles GET /guards/{id}/estimate. Without both dates the
// guard is reported with no estimate instead of an error.
func (h *GuardsHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "api.estimate"
	id := r.PathValue("id")
	q := r.URL.Query()

	from, to := strings.TrimSpace(q.Get("date_from")), strings.TrimSpace(q.Get("date_to"))
	if from == "" || to == "" {
		if _, err := h.deps.Guard(r.Context(), id); err != nil {
			h.fail(r, w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, estimateResponse{GuardID: id})
		return
	}

	win, err := booking.ParseWindow(from, to, q.Get("start_time"), q.Get("end_time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	est, err := h.deps.Estimate(r.Context(), id, win)
	if err != nil {
		h.fail(r, w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, estimateResponse{GuardID: id, Available: true, Window: &win, Estimate: &est})
}

func (h *GuardsHandler) fail(r *http.Request, w http.ResponseWriter, op string, err error) {
	logFailure(r, h.logger, op, err)
	fail(w, err)
}

// logFailure logs errors the client cannot fix.
func logFailure(r *http.Request, log logger.Logger, op string, err error) {
	if status, _ := classify(err); status >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(err))
	}
}
