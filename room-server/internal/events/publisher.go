// Package events publishes room participation to the event bus for archival.
package events

//go:generate mockgen -source=publisher.go -destination=mock_publisher.go -package=events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Thanush-41/AgriXchange/shared/keys"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Publisher sends participation events
type Publisher interface {
	PublishParticipantJoined(ctx context.Context, event *models.ParticipantJoined) error
}

// JetStreamPublisher publishes to the ROOM_EVENTS stream with at-least-once delivery
type JetStreamPublisher struct {
	js jetstream.JetStream
}

// NewJetStreamPublisher creates the publisher and ensures the stream exists
func NewJetStreamPublisher(ctx context.Context, conn *nats.Conn) (*JetStreamPublisher, error) {
	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        keys.ParticipationStream,
		Description: "Room participation events for archival",
		Subjects:    []string{keys.ParticipationSubjects},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.WorkQueuePolicy,
		MaxAge:      7 * 24 * time.Hour,
		Replicas:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create/update stream: %w", err)
	}
	logger.Info("jetstream stream ready", map[string]any{"stream": keys.ParticipationStream})

	return &JetStreamPublisher{js: js}, nil
}

// PublishParticipantJoined waits for the server to persist the event.
// The event id doubles as the message id so redeliveries are deduplicated.
func (p *JetStreamPublisher) PublishParticipantJoined(ctx context.Context, event *models.ParticipantJoined) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := keys.ParticipationSubject(event.RoomID)
	ack, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.EventID))
	if err != nil {
		return fmt.Errorf("failed to publish to JetStream: %w", err)
	}

	logger.Debug("published participation event", map[string]any{
		"subject":  subject,
		"sequence": ack.Sequence,
		"event_id": event.EventID,
	})
	return nil
}
