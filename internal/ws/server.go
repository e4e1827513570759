package ws

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Server upgrades HTTP requests to websocket sessions and wires them into
// the hub.
type Server struct {
	hub             *Hub
	handler         *Handler
	upgrader        websocket.Upgrader
	maxMessageBytes int64
	logger          *slog.Logger
}

// NewServer creates a websocket endpoint. maxMessageBytes is the
// per-message transport ceiling; frames above it close the connection.
func NewServer(hub *Hub, handler *Handler, maxMessageBytes int64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		hub:     hub,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from the app origin; the role claim
			// in each request is the only authorization layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		maxMessageBytes: maxMessageBytes,
		logger:          logger,
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", "error", err)
		return
	}

	client := newClient(s.hub, conn, s.handler, s.logger)
	s.hub.Register(client)

	go client.writePump()
	go client.readPump(s.maxMessageBytes)
}
