package models

import (
	"encoding/json"
	"fmt"
)

// Realtime event names
const (
	EventAuthenticate    = "authenticate"
	EventAuthenticated   = "authenticated"
	EventJoinBiddingRoom = "join-bidding-room"
	EventRoomJoined      = "room-joined"
	EventError           = "error"

	EventRoomState    = "room-state"
	EventBidPlaced    = "bid-placed"
	EventAuctionEnded = "auction-ended"
)

// Frame is one named event on the realtime channel
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`

	// Generation of the connection the frame was read from. Never sent.
	Generation uint64 `json:"-"`
}

// NewFrame encodes payload as the data of a frame named event
func NewFrame(event string, payload any) (Frame, error) {
	f := Frame{Event: event}
	if payload == nil {
		return f, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	f.Data = data
	return f, nil
}

// Decode unmarshals the frame data into v
func (f Frame) Decode(v any) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("%s frame has no data", f.Event)
	}
	return json.Unmarshal(f.Data, v)
}

// Text returns the data as a plain string. JSON strings are unquoted,
// anything else is returned as raw text.
func (f Frame) Text() string {
	var s string
	if err := json.Unmarshal(f.Data, &s); err == nil {
		return s
	}
	return string(f.Data)
}

// RoomJoinedPayload is the data of a room-joined event
type RoomJoinedPayload struct {
	Room Room `json:"room"`
}
