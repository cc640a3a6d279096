// Package room keeps the live state of one bidding room and renders it.
package room

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// ErrStreamClosed is returned by Watch when the event stream ends
var ErrStreamClosed = errors.New("room: event stream closed")

// maxBids caps the bid log kept in memory
const maxBids = 50

// Snapshot is a copy of a view's state
type Snapshot struct {
	RoomID       string
	CurrentPrice float64
	BidCount     int
	Participants int
	EndsAt       time.Time
	Bids         []models.BidPlaced
	Ended        bool
	WinnerID     string
}

// View is the client-side state of a room, updated from room-scoped frames
type View struct {
	mu    sync.RWMutex
	state Snapshot
}

// NewView creates a view for the room the server admitted the user to
func NewView(room models.Room) *View {
	price := room.CurrentPrice
	if price == 0 {
		price = room.StartingPrice
	}
	return &View{
		state: Snapshot{
			RoomID:       room.ID,
			CurrentPrice: price,
			EndsAt:       room.EndsAt,
			Ended:        room.Status == models.RoomStatusClosed,
		},
	}
}

// Apply updates the view from f. Frames for other rooms and unknown events
// are ignored. It reports whether the state changed.
func (v *View) Apply(f models.Frame) bool {
	switch f.Event {
	case models.EventRoomState:
		var s models.RoomState
		if !v.decode(f, &s) || !v.owns(s.RoomID) {
			return false
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		v.state.CurrentPrice = s.CurrentPrice
		v.state.BidCount = s.BidCount
		v.state.Participants = s.Participants
		if !s.EndsAt.IsZero() {
			v.state.EndsAt = s.EndsAt
		}
		v.state.Bids = newestFirst(s.Bids)
		return true

	case models.EventBidPlaced:
		var b models.BidPlaced
		if !v.decode(f, &b) || !v.owns(b.RoomID) {
			return false
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		if b.Amount > v.state.CurrentPrice {
			v.state.CurrentPrice = b.Amount
		}
		v.state.BidCount++
		v.state.Bids = append([]models.BidPlaced{b}, v.state.Bids...)
		if len(v.state.Bids) > maxBids {
			v.state.Bids = v.state.Bids[:maxBids]
		}
		return true

	case models.EventAuctionEnded:
		var e models.AuctionEnded
		if !v.decode(f, &e) || !v.owns(e.RoomID) {
			return false
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		v.state.Ended = true
		v.state.WinnerID = e.WinnerID
		if e.FinalPrice > 0 {
			v.state.CurrentPrice = e.FinalPrice
		}
		if !e.EndedAt.IsZero() {
			v.state.EndsAt = e.EndedAt
		}
		return true
	}
	return false
}

func (v *View) decode(f models.Frame, dst any) bool {
	if err := f.Decode(dst); err != nil {
		logger.Warn("dropping malformed room frame", map[string]any{
			"event": f.Event,
			"error": err.Error(),
		})
		return false
	}
	return true
}

// owns reports whether a frame addressed to roomID belongs to this view
func (v *View) owns(roomID string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return roomID == v.state.RoomID
}

// RoomID returns the id of the room the view tracks
func (v *View) RoomID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.RoomID
}

// Watch applies frames from events until ctx is done or the stream closes.
// onChange, if non-nil, is called after every state change.
func (v *View) Watch(ctx context.Context, events <-chan models.Frame, onChange func(Snapshot)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-events:
			if !ok {
				return ErrStreamClosed
			}
			if v.Apply(f) && onChange != nil {
				onChange(v.Snapshot())
			}
		}
	}
}

// Snapshot returns a copy of the current state
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	s := v.state
	s.Bids = append([]models.BidPlaced(nil), v.state.Bids...)
	return s
}

// Render writes a text panel of the room: price, countdown and recent bids
func (v *View) Render(w io.Writer, now time.Time) error {
	s := v.Snapshot()

	status := "ends in " + models.TimeLeft(s.EndsAt.Sub(now))
	if s.EndsAt.IsZero() {
		status = "open"
	}
	if s.Ended || (!s.EndsAt.IsZero() && !now.Before(s.EndsAt)) {
		status = "ended"
		if s.WinnerID != "" {
			status += ", won by " + s.WinnerID
		}
	}

	if _, err := fmt.Fprintf(w, "Bidding Room %s\n", s.RoomID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Current bid: ₹%.2f  (%d bids, %d bidders)\n", s.CurrentPrice, s.BidCount, s.Participants)
	fmt.Fprintf(w, "Status: %s\n", status)

	limit := len(s.Bids)
	if limit > 5 {
		limit = 5
	}
	for _, b := range s.Bids[:limit] {
		who := b.BidderName
		if who == "" {
			who = b.BidderID
		}
		fmt.Fprintf(w, "  ₹%.2f by %s at %s\n", b.Amount, who, b.PlacedAt.Local().Format("15:04:05"))
	}
	return nil
}

func newestFirst(bids []models.BidPlaced) []models.BidPlaced {
	out := make([]models.BidPlaced, 0, len(bids))
	for i := len(bids) - 1; i >= 0 && len(out) < maxBids; i-- {
		out = append(out, bids[i])
	}
	return out
}
