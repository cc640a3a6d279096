package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Thanush-41/AgriXchange/shared/auth"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// ErrSessionClosed is returned when writing to a closed session
var ErrSessionClosed = errors.New("session closed")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Session is one client connection speaking the room protocol
type Session struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	closeOnce sync.Once

	// Set by the protocol, only touched from the read goroutine
	claims *auth.Claims
}

func newSession(conn *websocket.Conn) *Session {
	return &Session{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// Emit queues a frame for the client, waiting if the send buffer is full
func (s *Session) Emit(event string, payload any) error {
	f, err := models.NewFrame(event, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	select {
	case s.send <- data:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// EmitError sends an error event carrying message
func (s *Session) EmitError(message string) error {
	return s.Emit(models.EventError, message)
}

// enqueue queues data without waiting. It reports false when the buffer is full.
func (s *Session) enqueue(data []byte) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// Close ends the session. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// writePump pumps messages from the send channel to the websocket connection
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// readPump dispatches client frames to the protocol until the connection ends
func (s *Session) readPump(ctx context.Context, hub *Hub, proto *Protocol) {
	defer hub.Unregister(s)

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", map[string]any{"session_id": s.ID, "error": err.Error()})
			}
			return
		}

		var f models.Frame
		if err := json.Unmarshal(message, &f); err != nil || f.Event == "" {
			logger.Debug("ignoring malformed client frame", map[string]any{"session_id": s.ID})
			continue
		}
		proto.Handle(ctx, s, f)
	}
}
