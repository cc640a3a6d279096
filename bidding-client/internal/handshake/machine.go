// Package handshake implements the authenticate-then-join exchange a trader
// performs before entering a bidding room.
package handshake

import (
	"errors"

	"github.com/Thanush-41/AgriXchange/shared/models"
)

// User-facing failure messages produced locally
const (
	NoRoomMessage         = "No bidding room found for this product."
	InvalidRoomMessage    = "Invalid bidding room received from server."
	TimeoutMessage        = "Timed out waiting for the bidding server."
	ConnectionLostMessage = "Connection to the bidding server was lost."
	CanceledMessage       = "Joining the bidding room was cancelled."
	SendFailedMessage     = "Could not reach the bidding server."
)

var (
	ErrAlreadyStarted   = errors.New("handshake: already started")
	ErrMissingToken     = errors.New("handshake: missing identity token")
	ErrTimeout          = errors.New("handshake: timed out")
	ErrConnectionClosed = errors.New("handshake: connection closed")
	ErrCanceled         = errors.New("handshake: canceled")
)

// State of one join attempt
type State int

const (
	Idle State = iota
	Authenticating
	Authenticated
	JoiningRoom
	RoomJoined
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case JoiningRoom:
		return "joining_room"
	case RoomJoined:
		return "room_joined"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == RoomJoined || s == Failed
}

// Kind tags a Result
type Kind int

const (
	KindPending Kind = iota
	KindAuthenticated
	KindRoomJoined
	KindFailed
)

// Result of an attempt. RoomID and Room are set for KindRoomJoined,
// Message for KindFailed.
type Result struct {
	Kind    Kind
	RoomID  string
	Room    models.Room
	Message string
}

// Failure builds a failed result carrying message
func Failure(message string) Result {
	return Result{Kind: KindFailed, Message: message}
}

// Machine is the state machine of a single join attempt. Every acknowledgement
// is consumed at most once, and frames from any other generation are ignored.
type Machine struct {
	generation uint64
	roomID     string
	state      State
	result     Result
}

// NewMachine creates a machine for the attempt identified by generation that
// will request roomID once authenticated
func NewMachine(generation uint64, roomID string) *Machine {
	return &Machine{
		generation: generation,
		roomID:     roomID,
		state:      Idle,
	}
}

// State returns the current state
func (m *Machine) State() State { return m.state }

// Result returns the outcome so far
func (m *Machine) Result() Result { return m.result }

// Start moves Idle to Authenticating and returns the authenticate frame to send
func (m *Machine) Start(token string) (models.Frame, error) {
	if m.state != Idle {
		return models.Frame{}, ErrAlreadyStarted
	}
	if token == "" {
		return models.Frame{}, ErrMissingToken
	}

	f, err := models.NewFrame(models.EventAuthenticate, token)
	if err != nil {
		return models.Frame{}, err
	}
	m.state = Authenticating
	return f, nil
}

// Handle applies an incoming frame. It returns the frame to send in response,
// if any, and whether the frame caused a transition.
func (m *Machine) Handle(f models.Frame) (*models.Frame, bool) {
	if f.Generation != m.generation || m.state == Idle || m.state.Terminal() {
		return nil, false
	}

	switch f.Event {
	case models.EventAuthenticated:
		if m.state != Authenticating {
			return nil, false
		}
		m.state = Authenticated
		m.result = Result{Kind: KindAuthenticated}

		if m.roomID == "" {
			m.Fail(NoRoomMessage)
			return nil, true
		}
		join, err := models.NewFrame(models.EventJoinBiddingRoom, m.roomID)
		if err != nil {
			m.Fail(SendFailedMessage)
			return nil, true
		}
		m.state = JoiningRoom
		return &join, true

	case models.EventRoomJoined:
		if m.state != JoiningRoom {
			return nil, false
		}
		var payload models.RoomJoinedPayload
		if err := f.Decode(&payload); err != nil || payload.Room.ID == "" {
			m.Fail(InvalidRoomMessage)
			return nil, true
		}
		m.state = RoomJoined
		m.result = Result{Kind: KindRoomJoined, RoomID: payload.Room.ID, Room: payload.Room}
		return nil, true

	case models.EventError:
		m.Fail(f.Text())
		return nil, true
	}

	return nil, false
}

// Fail moves any non-terminal state to Failed with message
func (m *Machine) Fail(message string) {
	if m.state.Terminal() {
		return
	}
	m.state = Failed
	m.result = Failure(message)
}
