package websocket

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Thanush-41/AgriXchange/room-server/internal/events"
	redisStore "github.com/Thanush-41/AgriXchange/room-server/internal/redis"
	"github.com/Thanush-41/AgriXchange/shared/auth"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Error messages sent to clients
const (
	MsgAuthFailed       = "Authentication failed"
	MsgAlreadyAuth      = "Already authenticated"
	MsgNotAuthenticated = "Not authenticated"
	MsgTradersOnly      = "Only traders can join bidding rooms"
	MsgRoomNotFound     = "Bidding room not found"
	MsgRoomClosed       = "Bidding room is closed"
	MsgJoinFailed       = "Failed to join bidding room"
	MsgUnsupportedEvent = "Unsupported event"
)

const eventPublishTimeout = 5 * time.Second

// TokenVerifier validates identity tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RoomStore is the room persistence the protocol needs
type RoomStore interface {
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	AddParticipant(ctx context.Context, roomID, userID string) (bool, error)
	Snapshot(ctx context.Context, room *models.Room) (*models.RoomState, error)
	PublishRoomEvent(ctx context.Context, roomID string, frame models.Frame) error
}

// Protocol implements the authenticate and join-bidding-room exchange
type Protocol struct {
	verifier  TokenVerifier
	rooms     RoomStore
	publisher events.Publisher
	hub       *Hub
	now       func() time.Time
}

// NewProtocol creates the protocol handler
func NewProtocol(verifier TokenVerifier, rooms RoomStore, publisher events.Publisher, hub *Hub) *Protocol {
	return &Protocol{
		verifier:  verifier,
		rooms:     rooms,
		publisher: publisher,
		hub:       hub,
		now:       time.Now,
	}
}

// authenticatedPayload is the data of an authenticated event
type authenticatedPayload struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
}

// Handle processes one client frame
func (p *Protocol) Handle(ctx context.Context, s *Session, f models.Frame) {
	switch f.Event {
	case models.EventAuthenticate:
		p.authenticate(s, f.Text())
	case models.EventJoinBiddingRoom:
		p.joinRoom(ctx, s, f.Text())
	default:
		s.EmitError(MsgUnsupportedEvent)
	}
}

func (p *Protocol) authenticate(s *Session, token string) {
	if s.claims != nil {
		s.EmitError(MsgAlreadyAuth)
		return
	}

	claims, err := p.verifier.Verify(token)
	if err != nil {
		logger.Info("authentication failed", map[string]any{"session_id": s.ID, "error": err.Error()})
		s.EmitError(MsgAuthFailed)
		return
	}

	s.claims = claims
	s.Emit(models.EventAuthenticated, authenticatedPayload{UserID: claims.Subject, Role: claims.Role})
}

func (p *Protocol) joinRoom(ctx context.Context, s *Session, roomID string) {
	if s.claims == nil {
		s.EmitError(MsgNotAuthenticated)
		return
	}
	if s.claims.Role != models.RoleTrader {
		s.EmitError(MsgTradersOnly)
		return
	}
	if roomID == "" {
		s.EmitError(MsgRoomNotFound)
		return
	}

	room, err := p.rooms.GetRoom(ctx, roomID)
	if errors.Is(err, redisStore.ErrRoomNotFound) {
		s.EmitError(MsgRoomNotFound)
		return
	}
	if err != nil {
		logger.Error("failed to load room", map[string]any{"room_id": roomID, "error": err.Error()})
		s.EmitError(MsgJoinFailed)
		return
	}
	if !room.IsOpen(p.now()) {
		s.EmitError(MsgRoomClosed)
		return
	}

	userID := s.claims.Subject
	added, err := p.rooms.AddParticipant(ctx, room.ID, userID)
	if err != nil {
		logger.Error("failed to record participant", map[string]any{"room_id": room.ID, "error": err.Error()})
		s.EmitError(MsgJoinFailed)
		return
	}

	p.hub.Join(s, room.ID)

	if err := s.Emit(models.EventRoomJoined, models.RoomJoinedPayload{Room: *room}); err != nil {
		return
	}

	state, err := p.rooms.Snapshot(ctx, room)
	if err != nil {
		logger.Warn("failed to load room state", map[string]any{"room_id": room.ID, "error": err.Error()})
		return
	}
	s.Emit(models.EventRoomState, state)

	if !added {
		return
	}

	// Other members see the participant count change
	if f, err := models.NewFrame(models.EventRoomState, state); err == nil {
		if err := p.rooms.PublishRoomEvent(ctx, room.ID, f); err != nil {
			logger.Warn("failed to publish room state", map[string]any{"room_id": room.ID, "error": err.Error()})
		}
	}

	event := &models.ParticipantJoined{
		EventID:  uuid.NewString(),
		RoomID:   room.ID,
		UserID:   userID,
		JoinedAt: p.now().UTC(),
	}
	pubCtx, cancel := context.WithTimeout(ctx, eventPublishTimeout)
	defer cancel()
	if err := p.publisher.PublishParticipantJoined(pubCtx, event); err != nil {
		// Archival lags behind but the join stands
		logger.Warn("failed to publish participation event", map[string]any{
			"room_id":  room.ID,
			"event_id": event.EventID,
			"error":    err.Error(),
		})
	}
}
