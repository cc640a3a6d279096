// Package join implements the "Join Bidding" action: it checks who is signed
// in, opens a realtime connection and runs the handshake, then navigates to
// the room the server admitted the trader to.
package join

//go:generate mockgen -source=join.go -destination=mock_join.go -package=join

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/Thanush-41/AgriXchange/bidding-client/internal/handshake"
	"github.com/Thanush-41/AgriXchange/bidding-client/internal/realtime"
	"github.com/Thanush-41/AgriXchange/bidding-client/internal/session"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Notices shown to the user for failures detected locally
const (
	TraderOnlyNotice    = "Please log in as a trader to join bidding."
	NoRoomNotice        = handshake.NoRoomMessage
	ConnectFailedNotice = "Could not connect to the bidding server."
)

// Connector opens realtime connections, one per attempt
type Connector interface {
	Connect(ctx context.Context, token string) (realtime.Conn, error)
	IsCurrent(generation uint64) bool
}

// Navigator moves the user to another view
type Navigator interface {
	Navigate(path string)
}

// Notifier shows a blocking notice to the user
type Notifier interface {
	Notify(message string)
}

// Outcome of one join attempt
type Outcome struct {
	Result handshake.Result
	// Path is the navigation target, set only when the room was joined
	Path string
	// Superseded is set when a newer attempt replaced this one
	Superseded bool
}

// Service runs join attempts
type Service struct {
	store     session.Store
	connector Connector
	navigator Navigator
	notifier  Notifier
	runner    handshake.Runner
}

// NewService wires the join action. timeout bounds each handshake state;
// zero uses the handshake default.
func NewService(store session.Store, connector Connector, navigator Navigator, notifier Notifier, timeout time.Duration) *Service {
	return &Service{
		store:     store,
		connector: connector,
		navigator: navigator,
		notifier:  notifier,
		runner:    handshake.Runner{Timeout: timeout},
	}
}

// RoomPath is the view path of a bidding room
func RoomPath(roomID string) string {
	return "/bidding/" + url.PathEscape(roomID)
}

// JoinBidding runs one attempt for listing. Failures are reported through the
// notifier and never retried. Only the newest attempt may navigate.
func (s *Service) JoinBidding(ctx context.Context, listing models.Listing) Outcome {
	id, err := s.store.Load()
	if err != nil {
		logger.Warn("failed to read stored identity", map[string]any{"error": err.Error()})
		id = session.Identity{}
	}

	if !id.CanBid() {
		return s.fail(TraderOnlyNotice)
	}

	roomID := listing.RoomID()
	if roomID == "" {
		return s.fail(NoRoomNotice)
	}

	conn, err := s.connector.Connect(ctx, id.Token)
	if errors.Is(err, realtime.ErrSuperseded) {
		return Outcome{Result: handshake.Failure(ConnectFailedNotice), Superseded: true}
	}
	if err != nil {
		logger.Error("failed to open bidding connection", map[string]any{
			"listing_id": listing.ID,
			"error":      err.Error(),
		})
		return s.fail(ConnectFailedNotice)
	}

	res, err := s.runner.Run(ctx, conn, id.Token, roomID)
	if !s.connector.IsCurrent(conn.Generation()) {
		logger.Info("join attempt superseded", map[string]any{
			"listing_id": listing.ID,
			"generation": conn.Generation(),
		})
		return Outcome{Result: res, Superseded: true}
	}
	if err != nil {
		logger.Warn("bidding handshake did not complete", map[string]any{
			"listing_id": listing.ID,
			"room_id":    roomID,
			"error":      err.Error(),
		})
	}

	if res.Kind != handshake.KindRoomJoined {
		s.notifier.Notify(res.Message)
		return Outcome{Result: res}
	}

	path := RoomPath(res.RoomID)
	logger.Info("joined bidding room", map[string]any{
		"listing_id": listing.ID,
		"room_id":    res.RoomID,
	})
	s.navigator.Navigate(path)
	return Outcome{Result: res, Path: path}
}

func (s *Service) fail(notice string) Outcome {
	s.notifier.Notify(notice)
	return Outcome{Result: handshake.Failure(notice)}
}
