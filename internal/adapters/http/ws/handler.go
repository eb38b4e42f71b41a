package ws

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/protecthire/protecthire/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// Handler upgrades requests and subscribes them to the hub.
type Handler struct {
	hub *Hub
}

// NewHandler returns an http.Handler for hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.hub.Done():
		http.Error(w, "notification feed stopped", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.hub.log.Warn(r.Context(), "ws upgrade failed", logger.Error(err))
		return
	}

	c := NewClient(h.hub, conn)
	if !h.hub.Register(c) {
		conn.Close()
		return
	}
	go c.WritePump()
	go c.ReadPump()
}
