package realtime

import "github.com/Thanush-41/AgriXchange/shared/models"

// Conn is the part of a connection the bidding handshake drives
type Conn interface {
	Send(f models.Frame) error
	Events() <-chan models.Frame
	Generation() uint64
}
