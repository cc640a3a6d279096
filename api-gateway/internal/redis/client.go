package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Thanush-41/AgriXchange/shared/keys"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// Client wraps the Redis client with catalog operations
type Client struct {
	client *redis.Client
}

// RoomStats is the live activity of a bidding room
type RoomStats struct {
	Participants int
	Bids         int
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
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

	return NewClientWithRedis(rdb), nil
}

// NewClientWithRedis wraps an existing client
func NewClientWithRedis(rdb *redis.Client) *Client {
	return &Client{client: rdb}
}

// SaveProduct stores a product in the catalog
func (c *Client) SaveProduct(ctx context.Context, p *models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}
	if err := c.client.HSet(ctx, keys.Products, p.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save product %s: %w", p.ID, err)
	}
	return nil
}

// Products returns every catalog product, newest first
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	entries, err := c.client.HGetAll(ctx, keys.Products).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	products := make([]models.Product, 0, len(entries))
	for id, raw := range entries {
		var p models.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			logger.Warn("skipping corrupt product", map[string]any{"product_id": id, "error": err.Error()})
			continue
		}
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// OpenRoom stores a bidding room and links it to its listing
func (c *Client) OpenRoom(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to encode room: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, keys.Room(room.ID), data, 0)
	pipe.HSet(ctx, keys.ListingRooms, room.ListingID, room.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to open room %s: %w", room.ID, err)
	}
	return nil
}

// ListingRooms returns the bidding room of each listing that has one
func (c *Client) ListingRooms(ctx context.Context) (map[string]*models.Room, error) {
	links, err := c.client.HGetAll(ctx, keys.ListingRooms).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load listing rooms: %w", err)
	}
	if len(links) == 0 {
		return map[string]*models.Room{}, nil
	}

	listingIDs := make([]string, 0, len(links))
	roomKeys := make([]string, 0, len(links))
	for listingID, roomID := range links {
		listingIDs = append(listingIDs, listingID)
		roomKeys = append(roomKeys, keys.Room(roomID))
	}

	values, err := c.client.MGet(ctx, roomKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	rooms := make(map[string]*models.Room, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Linked room has been removed
			continue
		}
		var room models.Room
		if err := json.Unmarshal([]byte(raw), &room); err != nil {
			logger.Warn("skipping corrupt room", map[string]any{"listing_id": listingIDs[i], "error": err.Error()})
			continue
		}
		rooms[listingIDs[i]] = &room
	}
	return rooms, nil
}

// RoomStats returns participant and bid counts for each room id
func (c *Client) RoomStats(ctx context.Context, roomIDs []string) (map[string]RoomStats, error) {
	if len(roomIDs) == 0 {
		return map[string]RoomStats{}, nil
	}

	pipe := c.client.Pipeline()
	participants := make([]*redis.IntCmd, len(roomIDs))
	bids := make([]*redis.IntCmd, len(roomIDs))
	for i, id := range roomIDs {
		participants[i] = pipe.SCard(ctx, keys.Participants(id))
		bids[i] = pipe.LLen(ctx, keys.Bids(id))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load room stats: %w", err)
	}

	stats := make(map[string]RoomStats, len(roomIDs))
	for i, id := range roomIDs {
		stats[id] = RoomStats{
			Participants: int(participants[i].Val()),
			Bids:         int(bids[i].Val()),
		}
	}
	return stats, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}
