// Package keys names the Redis keys, Pub/Sub channels and event bus subjects
// shared between services.
package keys

import (
	"fmt"
	"strings"
)

// Products is the hash of catalog products, keyed by product id
const Products = "catalog:products"

// ListingRooms maps listing ids to the id of their bidding room
const ListingRooms = "catalog:listing_rooms"

// RoomEventsPrefix prefixes the Pub/Sub channel of each room
const RoomEventsPrefix = "room_events:"

// RoomEventsPattern matches every room channel
const RoomEventsPattern = RoomEventsPrefix + "*"

// ParticipationStream is the JetStream stream of room participation events
const ParticipationStream = "ROOM_EVENTS"

// ParticipationSubjects matches the participation subject of every room
const ParticipationSubjects = "rooms.joined.*"

// ParticipationSubject is the subject a room's participation events are published on
func ParticipationSubject(roomID string) string { return fmt.Sprintf("rooms.joined.%s", roomID) }

// Room holds the JSON encoded room
func Room(id string) string { return fmt.Sprintf("room:%s", id) }

// Participants is the set of user ids admitted to a room
func Participants(roomID string) string { return fmt.Sprintf("room:%s:participants", roomID) }

// Bids is the list of bids placed in a room, oldest first
func Bids(roomID string) string { return fmt.Sprintf("room:%s:bids", roomID) }

// RoomEvents is the Pub/Sub channel of a room
func RoomEvents(roomID string) string { return RoomEventsPrefix + roomID }

// RoomFromChannel extracts the room id from a room channel name.
// Example: "room_events:r1" -> "r1"
func RoomFromChannel(channel string) string {
	id, ok := strings.CutPrefix(channel, RoomEventsPrefix)
	if !ok {
		return ""
	}
	return id
}
