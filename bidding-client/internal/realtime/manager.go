package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Thanush-41/AgriXchange/shared/logger"
)

// Manager owns at most one live connection per client session.
// Every Acquire opens a fresh connection and tears down the one it replaces.
type Manager struct {
	url    string
	dialer *websocket.Dialer

	mu         sync.Mutex
	current    *Connection
	generation uint64
}

// NewManager creates a manager for the room server at url.
// A nil dialer uses a default with a 10 second handshake timeout.
func NewManager(url string, dialer *websocket.Dialer) *Manager {
	if dialer == nil {
		dialer = &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		}
	}
	return &Manager{
		url:    url,
		dialer: dialer,
	}
}

// Acquire opens a new connection for token, replacing any existing one.
// If another Acquire starts before the dial completes, the result is
// discarded and ErrSuperseded is returned.
func (m *Manager) Acquire(ctx context.Context, token string) (*Connection, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	m.mu.Lock()
	m.generation++
	gen := m.generation
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if prev != nil {
		prev.Close()
		logger.Debug("replaced realtime connection", map[string]any{
			"connection_id": prev.ID(),
			"generation":    prev.Generation(),
		})
	}

	ws, resp, err := m.dialer.DialContext(ctx, m.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("realtime: failed to connect to %s: %w", m.url, err)
	}

	conn := newConnection(ws, gen, token)

	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		conn.Close()
		return nil, ErrSuperseded
	}
	m.current = conn
	m.mu.Unlock()

	logger.Debug("realtime connection opened", map[string]any{
		"connection_id": conn.ID(),
		"generation":    gen,
	})
	return conn, nil
}

// Connect is Acquire for callers that only need the handshake view of a connection
func (m *Manager) Connect(ctx context.Context, token string) (Conn, error) {
	conn, err := m.Acquire(ctx, token)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Current returns the live connection if it was opened for token
func (m *Manager) Current(token string) (*Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.closed() || m.current.token != token {
		return nil, ErrNoConnection
	}
	return m.current, nil
}

// IsCurrent reports whether generation belongs to the newest attempt
func (m *Manager) IsCurrent(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation == generation
}

// Close tears down the live connection, if any
func (m *Manager) Close() error {
	m.mu.Lock()
	conn := m.current
	m.current = nil
	m.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}
