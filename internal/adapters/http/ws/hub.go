// Package ws pushes notifications to websocket subscribers.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
	"github.com/protecthire/protecthire/internal/domain/model"
	"github.com/protecthire/protecthire/pkg/logger"
	"github.com/protecthire/protecthire/pkg/metrics"
)

const (
	broadcastBuffer = 1024
	clientBuffer    = 64
)

// Event is the JSON frame sent to subscribers. The feed is public, so it
// carries directory data and booking dates only, never client contact
// details or the service address.
type Event struct {
	Type      string         `json:"type"`
	ID        string         `json:"id"`
	Guard     guard.Profile  `json:"guard"`
	Booking   *BookingNotice `json:"booking,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// BookingNotice is the public part of a booking request.
type BookingNotice struct {
	Reference string       `json:"reference"`
	GuardID   string       `json:"guard_id"`
	DateFrom  booking.Date `json:"date_from"`
	DateTo    booking.Date `json:"date_to"`
}

// NewEvent projects n onto the public feed.
func NewEvent(n model.Notification, at time.Time) Event { //nolint:gocritic // hugeParam
	ev := Event{
		Type:      string(n.Kind),
		ID:        n.ID,
		Guard:     n.Guard,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
	if n.Booking != nil {
		ev.Booking = &BookingNotice{
			Reference: n.Booking.Reference,
			GuardID:   n.Booking.GuardID,
			DateFrom:  n.Booking.Window.From,
			DateTo:    n.Booking.Window.To,
		}
	}
	return ev
}

// Hub tracks subscribers and fans broadcasts out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	stopped bool

	broadcast chan []byte
	log       logger.Logger
	done      chan struct{}
}

// NewHub creates a hub. Call Run to start it.
func NewHub(l logger.Logger) *Hub {
	if l == nil {
		l = logger.Nop()
	}
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan []byte, broadcastBuffer),
		log:       l,
		done:      make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.disconnectAll()

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-h.broadcast:
			h.fanout(msg)
		}
	}
}

// fanout sends msg to every client, dropping those whose buffer is full.
// It holds the write lock so no client's channel closes mid-send.
func (h *Hub) fanout(msg []byte) {
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateWebsocketClients(total)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateWebsocketClients(total)
}

func (h *Hub) disconnectAll() {
	h.mu.Lock()
	h.stopped = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	metrics.UpdateWebsocketClients(0)
}

// Register adds c. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.UpdateWebsocketClients(total)
	h.log.Debug(context.Background(), "ws connected", logger.Int("total_clients", total))
	return true
}

// Unregister removes c. Removing an unknown client is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.remove(c)
	h.log.Debug(context.Background(), "ws disconnected", logger.Int("total_clients", h.ClientCount()))
}

// Broadcast queues msg for every client. It drops the message when the
// buffer is full or the hub has stopped.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- msg:
		return true
	default:
		h.log.Warn(context.Background(), "ws broadcast dropped", logger.String("reason", "buffer_full"))
		return false
	}
}

// Dispatch implements worker.Dispatcher by broadcasting the public Event
// for n.
func (h *Hub) Dispatch(_ context.Context, n model.Notification) error { //nolint:gocritic // hugeParam
	b, err := json.Marshal(NewEvent(n, time.Now()))
	if err != nil {
		return fmt.Errorf("encode ws event: %w", err)
	}
	h.Broadcast(b)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }
