package consumer

//go:generate mockgen -source=jetstream.go -destination=mock_jetstream.go -package=consumer

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

// durableName identifies the worker's consumer on the stream
const durableName = "archival-worker"

// Store persists participation events
type Store interface {
	InsertParticipant(ctx context.Context, event *models.ParticipantJoined) (bool, error)
}

// JetStreamConsumer consumes participation events and archives them
type JetStreamConsumer struct {
	conn  *nats.Conn
	js    jetstream.JetStream
	store Store
}

// NewJetStreamConsumer connects to NATS
func NewJetStreamConsumer(natsURL string, store Store) (*JetStreamConsumer, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &JetStreamConsumer{
		conn:  conn,
		js:    js,
		store: store,
	}, nil
}

// Start consumes participation events until ctx is done
func (c *JetStreamConsumer) Start(ctx context.Context) error {
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stream, err := c.js.CreateOrUpdateStream(setupCtx, jetstream.StreamConfig{
		Name:        keys.ParticipationStream,
		Description: "Room participation events for archival",
		Subjects:    []string{keys.ParticipationSubjects},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.WorkQueuePolicy,
		MaxAge:      7 * 24 * time.Hour,
		Replicas:    1,
	})
	if err != nil {
		return fmt.Errorf("failed to create/update stream: %w", err)
	}

	cons, err := stream.CreateOrUpdateConsumer(setupCtx, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: keys.ParticipationSubjects,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		c.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	defer cc.Stop()

	logger.Info("consuming participation events", map[string]any{
		"stream":  keys.ParticipationStream,
		"subject": keys.ParticipationSubjects,
	})

	<-ctx.Done()
	return nil
}

// handleMessage archives one event. Undecodable events are terminated,
// store failures are redelivered.
func (c *JetStreamConsumer) handleMessage(ctx context.Context, msg jetstream.Msg) {
	var event models.ParticipantJoined
	if err := json.Unmarshal(msg.Data(), &event); err != nil || event.EventID == "" || event.RoomID == "" {
		logger.Warn("dropping malformed participation event", map[string]any{"subject": msg.Subject()})
		msg.Term()
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	inserted, err := c.store.InsertParticipant(dbCtx, &event)
	if err != nil {
		logger.Error("failed to archive participation event", map[string]any{
			"event_id": event.EventID,
			"error":    err.Error(),
		})
		msg.Nak()
		return
	}

	logger.Info("archived participation event", map[string]any{
		"event_id":  event.EventID,
		"room_id":   event.RoomID,
		"user_id":   event.UserID,
		"duplicate": !inserted,
	})
	msg.Ack()
}

// Close closes the NATS connection
func (c *JetStreamConsumer) Close() error {
	c.conn.Close()
	return nil
}
