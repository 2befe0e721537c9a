package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maelqr/ecomeet/core/session"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// Conn adapts a gorilla websocket connection to the session.Socket contract.
// Broadcast fan-out and the per-connection read loop run on different
// goroutines, so writes are serialized with a mutex.
type Conn struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

// NewConn wraps an upgraded websocket connection.
func NewConn(conn *websocket.Conn) *Conn {
	conn.SetReadLimit(maxMessageSize)
	return &Conn{conn: conn}
}

// Receive blocks until the next JSON message arrives. A close from the peer
// surfaces as an error, which the session layer treats as a disconnect.
func (c *Conn) Receive() (map[string]any, error) {
	var msg map[string]any
	if err := c.conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Send writes one JSON message under a write deadline.
func (c *Conn) Send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Close closes the underlying connection. Safe to call more than once; the
// second close returns the underlying error, which callers discard.
func (c *Conn) Close() error {
	return c.conn.Close()
}

var _ session.Socket = (*Conn)(nil)
