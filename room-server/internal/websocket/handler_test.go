package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Thanush-41/AgriXchange/room-server/internal/events"
	redisStore "github.com/Thanush-41/AgriXchange/room-server/internal/redis"
	"github.com/Thanush-41/AgriXchange/shared/auth"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

type harness struct {
	t     *testing.T
	srv   *httptest.Server
	hub   *Hub
	auth  *auth.Authenticator
	store *redisStore.Store
	pub   *events.MockPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })
	store := redisStore.NewStoreWithClient(client)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)

	authn := auth.NewAuthenticator("test-secret", time.Hour)
	pub := events.NewMockPublisher(ctrl)
	proto := NewProtocol(authn, store, pub, hub)

	srv := httptest.NewServer(NewHandler(ctx, hub, proto).SetupRoutes())
	t.Cleanup(srv.Close)

	h := &harness{t: t, srv: srv, hub: hub, auth: authn, store: store, pub: pub}
	h.seedRoom("room42", models.RoomStatusActive, time.Now().Add(time.Hour))
	h.seedRoom("room-closed", models.RoomStatusClosed, time.Time{})
	h.seedRoom("room-over", models.RoomStatusActive, time.Now().Add(-time.Minute))
	return h
}

func (h *harness) seedRoom(id, status string, endsAt time.Time) {
	h.t.Helper()
	require.NoError(h.t, h.store.SaveRoom(context.Background(), &models.Room{
		ID:            id,
		ListingID:     "listing-" + id,
		Status:        status,
		StartingPrice: 1000,
		EndsAt:        endsAt,
	}))
}

func (h *harness) token(id string, role models.Role) string {
	h.t.Helper()
	tok, err := h.auth.Issue(models.User{ID: id, Name: id, Role: role})
	require.NoError(h.t, err)
	return tok
}

func (h *harness) dial() *websocket.Conn {
	h.t.Helper()
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/ws"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(h.t, err)
	h.t.Cleanup(func() { c.Close() })
	return c
}

func send(t *testing.T, c *websocket.Conn, event string, payload any) {
	t.Helper()
	f, err := models.NewFrame(event, payload)
	require.NoError(t, err)
	require.NoError(t, c.WriteJSON(f))
}

func read(t *testing.T, c *websocket.Conn) models.Frame {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(3*time.Second)))
	var f models.Frame
	require.NoError(t, c.ReadJSON(&f))
	return f
}

func requireError(t *testing.T, c *websocket.Conn, want string) {
	t.Helper()
	f := read(t, c)
	require.Equal(t, models.EventError, f.Event)
	require.Equal(t, want, f.Text())
}

// join authenticates c as a trader and joins roomID, returning the room-joined frame
func (h *harness) join(c *websocket.Conn, userID, roomID string) models.Frame {
	h.t.Helper()
	send(h.t, c, models.EventAuthenticate, h.token(userID, models.RoleTrader))
	require.Equal(h.t, models.EventAuthenticated, read(h.t, c).Event)
	send(h.t, c, models.EventJoinBiddingRoom, roomID)
	return read(h.t, c)
}

func TestHandshake_TraderJoinsRoom(t *testing.T) {
	h := newHarness(t)

	published := make(chan *models.ParticipantJoined, 1)
	h.pub.EXPECT().
		PublishParticipantJoined(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.ParticipantJoined) error {
			published <- e
			return nil
		}).
		Times(1)

	c := h.dial()
	joined := h.join(c, "u1", "room42")
	require.Equal(t, models.EventRoomJoined, joined.Event)

	var payload models.RoomJoinedPayload
	require.NoError(t, joined.Decode(&payload))
	require.Equal(t, "room42", payload.Room.ID)
	require.Equal(t, "listing-room42", payload.Room.ListingID)

	state := read(t, c)
	require.Equal(t, models.EventRoomState, state.Event)
	var rs models.RoomState
	require.NoError(t, state.Decode(&rs))
	require.Equal(t, 1, rs.Participants)
	require.Equal(t, 1000.0, rs.CurrentPrice)

	select {
	case e := <-published:
		require.Equal(t, "room42", e.RoomID)
		require.Equal(t, "u1", e.UserID)
		require.NotEmpty(t, e.EventID)
	case <-time.After(3 * time.Second):
		t.Fatal("participation event not published")
	}
}

func TestHandshake_RejoinDoesNotRepublish(t *testing.T) {
	h := newHarness(t)

	published := make(chan struct{}, 2)
	h.pub.EXPECT().
		PublishParticipantJoined(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *models.ParticipantJoined) error {
			published <- struct{}{}
			return nil
		}).
		Times(1)

	first := h.dial()
	require.Equal(t, models.EventRoomJoined, h.join(first, "u1", "room42").Event)
	read(t, first)
	<-published

	second := h.dial()
	require.Equal(t, models.EventRoomJoined, h.join(second, "u1", "room42").Event)
	read(t, second)
}

func TestHandshake_PublishFailureStillJoins(t *testing.T) {
	h := newHarness(t)
	h.pub.EXPECT().
		PublishParticipantJoined(gomock.Any(), gomock.Any()).
		Return(context.DeadlineExceeded).
		AnyTimes()

	c := h.dial()
	require.Equal(t, models.EventRoomJoined, h.join(c, "u1", "room42").Event)
}

func TestHandshake_Errors(t *testing.T) {
	tests := []struct {
		name  string
		steps func(h *harness, c *websocket.Conn)
		want  string
	}{
		{
			name: "invalid token",
			steps: func(h *harness, c *websocket.Conn) {
				send(h.t, c, models.EventAuthenticate, "not-a-token")
			},
			want: MsgAuthFailed,
		},
		{
			name: "already authenticated",
			steps: func(h *harness, c *websocket.Conn) {
				tok := h.token("u1", models.RoleTrader)
				send(h.t, c, models.EventAuthenticate, tok)
				require.Equal(h.t, models.EventAuthenticated, read(h.t, c).Event)
				send(h.t, c, models.EventAuthenticate, tok)
			},
			want: MsgAlreadyAuth,
		},
		{
			name: "join before authenticate",
			steps: func(h *harness, c *websocket.Conn) {
				send(h.t, c, models.EventJoinBiddingRoom, "room42")
			},
			want: MsgNotAuthenticated,
		},
		{
			name: "farmer",
			steps: func(h *harness, c *websocket.Conn) {
				send(h.t, c, models.EventAuthenticate, h.token("f1", models.RoleFarmer))
				require.Equal(h.t, models.EventAuthenticated, read(h.t, c).Event)
				send(h.t, c, models.EventJoinBiddingRoom, "room42")
			},
			want: MsgTradersOnly,
		},
		{
			name: "unsupported event",
			steps: func(h *harness, c *websocket.Conn) {
				send(h.t, c, "place-bid", 10)
			},
			want: MsgUnsupportedEvent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			c := h.dial()
			tc.steps(h, c)
			requireError(t, c, tc.want)
		})
	}
}

func TestHandshake_RoomChecks(t *testing.T) {
	tests := []struct {
		roomID string
		want   string
	}{
		{roomID: "nope", want: MsgRoomNotFound},
		{roomID: "", want: MsgRoomNotFound},
		{roomID: "room-closed", want: MsgRoomClosed},
		{roomID: "room-over", want: MsgRoomClosed},
	}

	for _, tc := range tests {
		t.Run(tc.want+"/"+tc.roomID, func(t *testing.T) {
			h := newHarness(t)
			c := h.dial()
			f := h.join(c, "u1", tc.roomID)
			require.Equal(t, models.EventError, f.Event)
			require.Equal(t, tc.want, f.Text())
		})
	}
}

func TestHub_BroadcastReachesRoomMembers(t *testing.T) {
	h := newHarness(t)
	h.pub.EXPECT().PublishParticipantJoined(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	inRoom := h.dial()
	require.Equal(t, models.EventRoomJoined, h.join(inRoom, "u1", "room42").Event)
	read(t, inRoom)

	require.Eventually(t, func() bool { return h.hub.GetSubscriberCount("room42") == 1 }, 2*time.Second, 10*time.Millisecond)

	bid, err := models.NewFrame(models.EventBidPlaced, models.BidPlaced{RoomID: "room42", Amount: 1500})
	require.NoError(t, err)
	data, err := json.Marshal(bid)
	require.NoError(t, err)
	h.hub.Broadcast("room42", data)

	got := read(t, inRoom)
	require.Equal(t, models.EventBidPlaced, got.Event)

	res, err := http.Get(h.srv.URL + "/stats/rooms/room42")
	require.NoError(t, err)
	defer res.Body.Close()
	var stats struct {
		RoomID      string `json:"roomId"`
		Subscribers int    `json:"subscribers"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&stats))
	require.Equal(t, "room42", stats.RoomID)
	require.Equal(t, 1, stats.Subscribers)

	inRoom.Close()
	require.Eventually(t, func() bool { return h.hub.GetSubscriberCount("room42") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHealthCheck(t *testing.T) {
	h := newHarness(t)
	res, err := http.Get(h.srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
}
