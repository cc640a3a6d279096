package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Thanush-41/AgriXchange/shared/keys"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// ErrRoomNotFound is returned when a room id has no stored room
var ErrRoomNotFound = errors.New("room not found")

// recentBids is how many bids a room snapshot carries
const recentBids = 50

// Store wraps the Redis client with room operations
type Store struct {
	client *redis.Client
}

// NewStore connects to Redis and returns a room store
func NewStore(addr, password string, db int) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewStoreWithClient(rdb), nil
}

// NewStoreWithClient wraps an existing client
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Client returns the underlying Redis client
func (s *Store) Client() *redis.Client {
	return s.client
}

// GetRoom loads a room by id
func (s *Store) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	data, err := s.client.Get(ctx, keys.Room(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room %s: %w", roomID, err)
	}

	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room %s: %w", roomID, err)
	}
	return &room, nil
}

// SaveRoom stores a room
func (s *Store) SaveRoom(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to encode room: %w", err)
	}
	if err := s.client.Set(ctx, keys.Room(room.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save room %s: %w", room.ID, err)
	}
	return nil
}

// AddParticipant records userID as a participant of the room.
// It reports whether the user was not a participant before.
func (s *Store) AddParticipant(ctx context.Context, roomID, userID string) (bool, error) {
	n, err := s.client.SAdd(ctx, keys.Participants(roomID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add participant to room %s: %w", roomID, err)
	}
	return n == 1, nil
}

// Snapshot builds the current state of a room: price, participants and recent bids
func (s *Store) Snapshot(ctx context.Context, room *models.Room) (*models.RoomState, error) {
	pipe := s.client.Pipeline()
	countCmd := pipe.SCard(ctx, keys.Participants(room.ID))
	totalCmd := pipe.LLen(ctx, keys.Bids(room.ID))
	bidsCmd := pipe.LRange(ctx, keys.Bids(room.ID), -recentBids, -1)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load room %s state: %w", room.ID, err)
	}

	price := room.CurrentPrice
	if price == 0 {
		price = room.StartingPrice
	}

	state := &models.RoomState{
		RoomID:       room.ID,
		CurrentPrice: price,
		BidCount:     int(totalCmd.Val()),
		Participants: int(countCmd.Val()),
		EndsAt:       room.EndsAt,
	}
	for _, raw := range bidsCmd.Val() {
		var bid models.BidPlaced
		if err := json.Unmarshal([]byte(raw), &bid); err != nil {
			continue
		}
		state.Bids = append(state.Bids, bid)
	}
	return state, nil
}

// PublishRoomEvent publishes a frame to the room's Pub/Sub channel.
// Every room-server instance forwards it to the sessions in that room.
func (s *Store) PublishRoomEvent(ctx context.Context, roomID string, frame models.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.client.Publish(ctx, keys.RoomEvents(roomID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
