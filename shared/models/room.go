package models

import "time"

// RoomStatus constants
const (
	RoomStatusActive = "active"
	RoomStatusClosed = "closed"
)

// Room is a server-side auction session for one listing.
// Its ID is assigned by the server and differs from the listing ID.
type Room struct {
	ID            string    `json:"_id"`
	ListingID     string    `json:"listing"`
	Status        string    `json:"status"`
	StartingPrice float64   `json:"startingPrice"`
	CurrentPrice  float64   `json:"currentPrice"`
	EndsAt        time.Time `json:"endsAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsOpen reports whether traders may still join the room
func (r *Room) IsOpen(now time.Time) bool {
	if r.Status != RoomStatusActive {
		return false
	}
	return r.EndsAt.IsZero() || now.Before(r.EndsAt)
}
