// Package ws carries the socket event protocol over gorilla/websocket.
// Each connection runs one read pump and one write pump; everything else
// lives in the realtime package.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/domain/event"
	"chat-relay/realtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 10 << 20 // attachments ride REST; frames stay small, but allow headroom
)

// Client is one live websocket session. Its buffered send channel is
// consumed by a single writer goroutine; Deliver never blocks the caller.
type Client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	log       *slog.Logger
	closeOnce sync.Once
	done      chan struct{}
}

func newClient(id string, conn *websocket.Conn, sendBuffer int, log *slog.Logger) *Client {
	conn.SetReadLimit(maxMessageSize)
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		log:  log,
		done: make(chan struct{}),
	}
}

// Deliver implements realtime.Sink. It reports false when the event had
// to be dropped because the connection is gone or its queue is full.
func (c *Client) Deliver(e event.Event) bool {
	data, err := json.Marshal(e)
	if err != nil {
		c.log.Error("Outbound event marshal failed", "event", e.Name(), "error", err)
		return false
	}
	frame, err := json.Marshal(realtime.Envelope{Event: e.Name(), Data: data})
	if err != nil {
		return false
	}

	select {
	case <-c.done:
		return false
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// readPump forwards inbound frames to the handler until the connection
// dies. It owns the read side deadlines and the pong handler.
func (c *Client) readPump(handle func(raw []byte)) {
	defer c.close()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Warn("Unexpected websocket close", "conn_id", c.id, "error", err)
			}
			return
		}
		handle(raw)
	}
}

// writePump drains the send queue and keeps the connection alive with
// periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
