package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Thanush-41/AgriXchange/shared/models"
)

// PostgresClient wraps the PostgreSQL database connection
type PostgresClient struct {
	db *sql.DB
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(connStr string) (*PostgresClient, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresClient{db: db}, nil
}

// InitSchema creates the necessary database tables
func (c *PostgresClient) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS room_participants (
		event_id VARCHAR(255) PRIMARY KEY,
		room_id VARCHAR(255) NOT NULL,
		user_id VARCHAR(255) NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL,
		archived_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_room_participants_room_id ON room_participants(room_id);
	CREATE INDEX IF NOT EXISTS idx_room_participants_user_id ON room_participants(user_id);
	`

	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// InsertParticipant archives a participation event. Redelivered events are
// ignored; it reports whether a row was written.
func (c *PostgresClient) InsertParticipant(ctx context.Context, event *models.ParticipantJoined) (bool, error) {
	query := `
		INSERT INTO room_participants (event_id, room_id, user_id, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING
	`

	result, err := c.db.ExecContext(ctx, query, event.EventID, event.RoomID, event.UserID, event.JoinedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert participant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

// RoomParticipants returns the archived joins of a room, most recent first
func (c *PostgresClient) RoomParticipants(ctx context.Context, roomID string, limit int) ([]*models.ParticipantJoined, error) {
	query := `
		SELECT event_id, room_id, user_id, joined_at
		FROM room_participants
		WHERE room_id = $1
		ORDER BY joined_at DESC
		LIMIT $2
	`

	rows, err := c.db.QueryContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.ParticipantJoined
	for rows.Next() {
		p := &models.ParticipantJoined{}
		if err := rows.Scan(&p.EventID, &p.RoomID, &p.UserID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	return c.db.Close()
}
