package models

import "time"

// BidPlaced is broadcast to a room whenever a bid is accepted
type BidPlaced struct {
	RoomID     string    `json:"roomId"`
	BidID      string    `json:"bidId"`
	BidderID   string    `json:"bidderId"`
	BidderName string    `json:"bidderName,omitempty"`
	Amount     float64   `json:"amount"`
	PlacedAt   time.Time `json:"placedAt"`
}

// RoomState is a full snapshot of a room, sent on join and on resync
type RoomState struct {
	RoomID       string      `json:"roomId"`
	CurrentPrice float64     `json:"currentPrice"`
	BidCount     int         `json:"bidCount"`
	Participants int         `json:"participants"`
	EndsAt       time.Time   `json:"endsAt"`
	Bids         []BidPlaced `json:"bids,omitempty"`
}

// AuctionEnded closes a room
type AuctionEnded struct {
	RoomID     string    `json:"roomId"`
	WinnerID   string    `json:"winnerId,omitempty"`
	FinalPrice float64   `json:"finalPrice"`
	EndedAt    time.Time `json:"endedAt"`
}

// ParticipantJoined is published when a trader is admitted to a room.
// It is sent to the event bus for archival.
type ParticipantJoined struct {
	EventID  string    `json:"event_id"`
	RoomID   string    `json:"room_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
