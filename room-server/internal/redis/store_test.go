package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Thanush-41/AgriXchange/shared/keys"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStoreWithClient(client), m
}

func TestStore_RoomRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetRoom(ctx, "missing")
	require.ErrorIs(t, err, ErrRoomNotFound)

	room := &models.Room{
		ID:            "room42",
		ListingID:     "p1",
		Status:        models.RoomStatusActive,
		StartingPrice: 1000,
		EndsAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveRoom(ctx, room))

	got, err := s.GetRoom(ctx, "room42")
	require.NoError(t, err)
	require.Equal(t, room.ListingID, got.ListingID)
	require.True(t, room.EndsAt.Equal(got.EndsAt))
}

func TestStore_GetRoomCorrupt(t *testing.T) {
	s, m := newTestStore(t)
	require.NoError(t, m.Set(keys.Room("bad"), "{"))

	_, err := s.GetRoom(context.Background(), "bad")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRoomNotFound)
}

func TestStore_AddParticipant(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()

	added, err := s.AddParticipant(ctx, "room42", "u1")
	require.NoError(t, err)
	require.True(t, added)

	added, err = s.AddParticipant(ctx, "room42", "u1")
	require.NoError(t, err)
	require.False(t, added)

	members, err := m.Members(keys.Participants("room42"))
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, members)
}

func TestStore_Snapshot(t *testing.T) {
	s, m := newTestStore(t)
	ctx := context.Background()

	room := &models.Room{ID: "room42", Status: models.RoomStatusActive, StartingPrice: 1000}
	state, err := s.Snapshot(ctx, room)
	require.NoError(t, err)
	require.Equal(t, 1000.0, state.CurrentPrice)
	require.Zero(t, state.Participants)
	require.Empty(t, state.Bids)

	for _, amount := range []float64{1100, 1200} {
		data, err := json.Marshal(models.BidPlaced{RoomID: "room42", Amount: amount})
		require.NoError(t, err)
		_, err = m.RPush(keys.Bids("room42"), string(data))
		require.NoError(t, err)
	}
	_, err = m.RPush(keys.Bids("room42"), "not json")
	require.NoError(t, err)
	_, err = m.SetAdd(keys.Participants("room42"), "u1", "u2")
	require.NoError(t, err)

	room.CurrentPrice = 1200
	state, err = s.Snapshot(ctx, room)
	require.NoError(t, err)
	require.Equal(t, 1200.0, state.CurrentPrice)
	require.Equal(t, 3, state.BidCount)
	require.Equal(t, 2, state.Participants)
	require.Len(t, state.Bids, 2)
	require.Equal(t, 1100.0, state.Bids[0].Amount)
}

func TestSubscriber_ForwardsRoomEvents(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := NewSubscriber(s.Client())
	require.NoError(t, sub.SubscribeToRooms(ctx))
	defer sub.Close()

	messages := make(chan *Message, 4)
	errCh := make(chan error, 1)
	go func() { errCh <- sub.Listen(ctx, messages) }()

	require.NoError(t, s.Client().Publish(ctx, keys.RoomEvents("room42"), "garbage").Err())
	f, err := models.NewFrame(models.EventBidPlaced, models.BidPlaced{RoomID: "room42", Amount: 1500})
	require.NoError(t, err)
	require.NoError(t, s.PublishRoomEvent(ctx, "room42", f))

	select {
	case msg := <-messages:
		require.Equal(t, "room42", msg.RoomID)
		var got models.Frame
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		require.Equal(t, models.EventBidPlaced, got.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("room event not forwarded")
	}

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestSubscriber_ListenWithoutSubscribe(t *testing.T) {
	s, _ := newTestStore(t)
	err := NewSubscriber(s.Client()).Listen(context.Background(), make(chan *Message))
	require.Error(t, err)
}
