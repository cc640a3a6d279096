// Package realtime owns the websocket channel to the room server.
package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

var (
	ErrConnectionClosed = errors.New("realtime: connection closed")
	ErrNoConnection     = errors.New("realtime: no live connection")
	ErrMissingToken     = errors.New("realtime: missing identity token")
	ErrSuperseded       = errors.New("realtime: superseded by a newer connection")
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
	eventBuffer    = 64
)

// Connection is one live websocket to the room server, bound to the token
// it was opened for. Frames read from it are stamped with its generation.
type Connection struct {
	id         string
	generation uint64
	token      string
	conn       *websocket.Conn

	send   chan []byte
	events chan models.Frame
	done   chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

func newConnection(ws *websocket.Conn, generation uint64, token string) *Connection {
	c := &Connection{
		id:         uuid.NewString(),
		generation: generation,
		token:      token,
		conn:       ws,
		send:       make(chan []byte, sendBuffer),
		events:     make(chan models.Frame, eventBuffer),
		done:       make(chan struct{}),
	}
	go c.readPump()
	go c.writePump()
	return c
}

// ID returns the local identifier of the connection
func (c *Connection) ID() string { return c.id }

// Generation returns the attempt counter value the connection was opened with
func (c *Connection) Generation() uint64 { return c.generation }

// Events delivers incoming frames. It is closed when the connection ends.
func (c *Connection) Events() <-chan models.Frame { return c.events }

// Done is closed once the connection has been torn down
func (c *Connection) Done() <-chan struct{} { return c.done }

// Err returns why the connection ended, or nil if it is open or was closed locally
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Emit sends a named event with payload
func (c *Connection) Emit(event string, payload any) error {
	f, err := models.NewFrame(event, payload)
	if err != nil {
		return err
	}
	return c.Send(f)
}

// Send queues a frame for writing
func (c *Connection) Send(f models.Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	}
}

// Close tears the connection down. It is safe to call more than once.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = c.conn.Close()
	})
	return nil
}

func (c *Connection) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Connection) fail(err error) {
	c.mu.Lock()
	if c.err == nil && !c.closed() {
		c.err = err
	}
	c.mu.Unlock()
	c.Close()
}

// readPump decodes frames from the socket into the events channel
func (c *Connection) readPump() {
	defer close(c.events)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if !c.closed() && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("realtime connection lost", map[string]any{
					"connection_id": c.id,
					"error":         err.Error(),
				})
			}
			c.fail(err)
			return
		}

		var f models.Frame
		if err := json.Unmarshal(message, &f); err != nil || f.Event == "" {
			logger.Warn("dropping malformed frame", map[string]any{
				"connection_id": c.id,
				"size":          len(message),
			})
			continue
		}
		f.Generation = c.generation

		select {
		case c.events <- f:
		case <-c.done:
			return
		}
	}
}

// writePump writes queued frames and keeps the connection alive with pings
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.fail(err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.fail(err)
				return
			}

		case <-c.done:
			return
		}
	}
}
