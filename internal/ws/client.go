package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Client is one connected session. Outbound frames go through a buffered
// send queue drained by writePump; inbound frames are dispatched from
// readPump, each in its own goroutine. A dispatched handler can outlive
// the session, so every enqueue and the queue close go through the same
// mutex.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	handler *Handler
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, handler *Handler, logger *slog.Logger) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		handler: handler,
		send:    make(chan []byte, sendBuffer),
		logger:  logger,
	}
}

// Send queues a direct reply to this session only. Replies to a session
// that has already disconnected are dropped.
func (c *Client) Send(event string, payload any) {
	if !c.trySend(mustEnvelope(event, payload)) {
		c.logger.Debug("reply dropped", "event", event)
	}
}

// trySend queues one frame unless the session is closed or its queue is
// full. Reports whether the frame was queued.
func (c *Client) trySend(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// close marks the session closed and releases writePump. Idempotent and
// safe against concurrent trySend.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump reads frames until the connection drops. Each mutation is
// handled as an independent unit of work: once dispatched, it runs to
// completion whether or not this session stays connected.
func (c *Client) readPump(maxMessageBytes int64) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("session read error", "error", err)
			}
			return
		}
		go c.handler.Dispatch(context.Background(), c, data)
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings. It exits when the hub closes the queue.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
