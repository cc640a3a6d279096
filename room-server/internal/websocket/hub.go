package websocket

import (
	"context"
	"sync"

	"github.com/Thanush-41/AgriXchange/shared/logger"
)

// Hub tracks which sessions are in which room and fans room events out to them
type Hub struct {
	// roomID -> sessions in that room, mutated only by Run
	rooms map[string]map[*Session]struct{}
	// session -> room it joined
	membership map[*Session]string
	mu         sync.RWMutex

	register   chan *Session
	unregister chan *Session
	join       chan *joinRequest
	broadcast  chan *BroadcastMessage
	stopped    chan struct{}
}

// BroadcastMessage is a payload for every session in a room
type BroadcastMessage struct {
	RoomID  string
	Payload []byte
}

type joinRequest struct {
	session *Session
	roomID  string
	done    chan struct{}
}

// NewHub creates a hub. Run must be started before it is used.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Session]struct{}),
		membership: make(map[*Session]string),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		join:       make(chan *joinRequest),
		broadcast:  make(chan *BroadcastMessage, 256),
		stopped:    make(chan struct{}),
	}
}

// Run serves hub requests until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case s := <-h.register:
			h.mu.Lock()
			h.membership[s] = ""
			h.mu.Unlock()
			logger.Debug("session connected", map[string]any{"session_id": s.ID})

		case s := <-h.unregister:
			h.remove(s)

		case req := <-h.join:
			h.addToRoom(req.session, req.roomID)
			close(req.done)

		case msg := <-h.broadcast:
			h.broadcastToRoom(msg.RoomID, msg.Payload)
		}
	}
}

// Register adds a connected session
func (h *Hub) Register(s *Session) {
	select {
	case h.register <- s:
	case <-h.stopped:
		s.Close()
	}
}

// Unregister removes a session and closes it
func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.stopped:
		s.Close()
	}
}

// Join moves s into roomID, leaving any room it was in. It returns once the
// session will receive the room's broadcasts.
func (h *Hub) Join(s *Session, roomID string) {
	req := &joinRequest{session: s, roomID: roomID, done: make(chan struct{})}
	select {
	case h.join <- req:
		<-req.done
	case <-h.stopped:
	}
}

// Broadcast queues payload for every session in roomID
func (h *Hub) Broadcast(roomID string, payload []byte) {
	select {
	case h.broadcast <- &BroadcastMessage{RoomID: roomID, Payload: payload}:
	case <-h.stopped:
	}
}

// GetSubscriberCount returns the number of sessions in a room
func (h *Hub) GetSubscriberCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) addToRoom(s *Session, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev, ok := h.membership[s]
	if !ok {
		// Session already gone
		return
	}
	if prev != "" {
		h.leave(s, prev)
	}

	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[roomID] = members
	}
	members[s] = struct{}{}
	h.membership[s] = roomID

	logger.Info("session joined room", map[string]any{
		"session_id": s.ID,
		"room_id":    roomID,
		"sessions":   len(members),
	})
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	roomID, ok := h.membership[s]
	if ok {
		if roomID != "" {
			h.leave(s, roomID)
		}
		delete(h.membership, s)
	}
	h.mu.Unlock()

	s.Close()
	if ok {
		logger.Debug("session disconnected", map[string]any{"session_id": s.ID, "room_id": roomID})
	}
}

// leave must be called with mu held
func (h *Hub) leave(s *Session, roomID string) {
	members := h.rooms[roomID]
	delete(members, s)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) broadcastToRoom(roomID string, payload []byte) {
	h.mu.RLock()
	var slow []*Session
	count := 0
	for s := range h.rooms[roomID] {
		if s.enqueue(payload) {
			count++
		} else {
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	// A slow session would hold up the whole room, so it is dropped
	for _, s := range slow {
		logger.Warn("dropping slow session", map[string]any{"session_id": s.ID, "room_id": roomID})
		h.remove(s)
	}

	logger.Debug("broadcast room event", map[string]any{"room_id": roomID, "sessions": count})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.membership))
	for s := range h.membership {
		sessions = append(sessions, s)
	}
	h.rooms = make(map[string]map[*Session]struct{})
	h.membership = make(map[*Session]string)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
