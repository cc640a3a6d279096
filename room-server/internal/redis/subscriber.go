package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Thanush-41/AgriXchange/shared/keys"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Subscriber wraps Redis Pub/Sub for room channels
type Subscriber struct {
	client *redis.Client
	pubsub *redis.PubSub
}

// NewSubscriber creates a subscriber on an existing client
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// SubscribeToRooms subscribes to the channels of every room
func (s *Subscriber) SubscribeToRooms(ctx context.Context) error {
	s.pubsub = s.client.PSubscribe(ctx, keys.RoomEventsPattern)
	// Wait for the subscription to be confirmed so no event is missed
	if _, err := s.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", keys.RoomEventsPattern, err)
	}
	return nil
}

// Message is a room event received over Pub/Sub
type Message struct {
	RoomID  string
	Payload []byte
}

// Listen forwards room events to messageChan until ctx is done.
// This is a blocking operation - run in a goroutine.
func (s *Subscriber) Listen(ctx context.Context, messageChan chan<- *Message) error {
	if s.pubsub == nil {
		return fmt.Errorf("not subscribed to any channel")
	}

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			roomID := keys.RoomFromChannel(msg.Channel)
			var frame models.Frame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil || frame.Event == "" || roomID == "" {
				logger.Warn("dropping malformed room event", map[string]any{"channel": msg.Channel})
				continue
			}

			select {
			case messageChan <- &Message{RoomID: roomID, Payload: []byte(msg.Payload)}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Close closes the subscription
func (s *Subscriber) Close() error {
	if s.pubsub != nil {
		return s.pubsub.Close()
	}
	return nil
}
