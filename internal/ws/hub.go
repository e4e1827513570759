package ws

import (
	"io"
	"log/slog"
	"sync"
)

// Hub is the explicit session registry: every connected client, whether
// or not it originated a mutation, receives every broadcast. Delivery is
// fire-and-forget; a slow recipient is dropped rather than awaited.
type Hub struct {
	mu       sync.Mutex
	sessions map[*Client]struct{}
	logger   *slog.Logger
}

// NewHub creates an empty session registry.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		sessions: make(map[*Client]struct{}),
		logger:   logger,
	}
}

// Register adds a session to the registry.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[c] = struct{}{}
	h.logger.Debug("session registered", "sessions", len(h.sessions))
}

// Unregister removes a session and closes its send queue. A handler
// goroutine still replying to the session drops its frames instead of
// panicking.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[c]; !ok {
		return
	}
	delete(h.sessions, c)
	c.close()
	h.logger.Debug("session unregistered", "sessions", len(h.sessions))
}

// Count reports the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Broadcast marshals the event once and queues it on every session. A
// session whose queue is full is dropped from the registry; the pipeline
// never blocks on a recipient.
func (h *Hub) Broadcast(event string, payload any) {
	frame := mustEnvelope(event, payload)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.sessions {
		if !c.trySend(frame) {
			h.logger.Warn("dropping slow session", "event", event)
			delete(h.sessions, c)
			c.close()
		}
	}
}
