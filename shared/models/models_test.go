package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListing_RoomID(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "populated_room", payload: `{"id":"bid1","biddingRoom":{"_id":"room42","status":"active"}}`, want: "room42"},
		{name: "bare_room_id", payload: `{"id":"bid1","biddingRoom":"room42"}`, want: "room42"},
		{name: "no_room", payload: `{"id":"bid1"}`, want: ""},
		{name: "null_room", payload: `{"id":"bid1","biddingRoom":null}`, want: ""},
		{name: "room_without_id", payload: `{"id":"bid1","biddingRoom":{}}`, want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var l Listing
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &l))
			require.Equal(t, "bid1", l.ID)
			require.Equal(t, tc.want, l.RoomID())
			require.NotEqual(t, l.ID, l.RoomID())
		})
	}
}

func TestFrame_Text(t *testing.T) {
	f, err := NewFrame(EventError, "Bidding room not found")
	require.NoError(t, err)
	require.Equal(t, "Bidding room not found", f.Text())

	raw := Frame{Event: EventError, Data: json.RawMessage(`{"code":1}`)}
	require.Equal(t, `{"code":1}`, raw.Text())

	empty := Frame{Event: EventAuthenticated}
	require.Equal(t, "", empty.Text())
}

func TestFrame_WireFormat(t *testing.T) {
	f, err := NewFrame(EventAuthenticate, "tok-abc")
	require.NoError(t, err)
	f.Generation = 7

	data, err := json.Marshal(f)
	require.NoError(t, err)
	require.JSONEq(t, `{"event":"authenticate","data":"tok-abc"}`, string(data))

	var joined RoomJoinedPayload
	in := Frame{Event: EventRoomJoined, Data: json.RawMessage(`{"room":{"_id":"room42","status":"active"}}`)}
	require.NoError(t, in.Decode(&joined))
	require.Equal(t, "room42", joined.Room.ID)

	require.Error(t, Frame{Event: EventRoomJoined}.Decode(&joined))
}

func TestRoom_IsOpen(t *testing.T) {
	now := time.Now()

	require.True(t, (&Room{Status: RoomStatusActive}).IsOpen(now))
	require.True(t, (&Room{Status: RoomStatusActive, EndsAt: now.Add(time.Minute)}).IsOpen(now))
	require.False(t, (&Room{Status: RoomStatusActive, EndsAt: now.Add(-time.Minute)}).IsOpen(now))
	require.False(t, (&Room{Status: RoomStatusClosed}).IsOpen(now))
}

func TestUser_IsTrader(t *testing.T) {
	var nilUser *User
	require.False(t, nilUser.IsTrader())
	require.False(t, (&User{Role: RoleFarmer}).IsTrader())
	require.True(t, (&User{Role: RoleTrader}).IsTrader())
	require.True(t, RoleUser.Valid())
	require.False(t, Role("admin").Valid())
}

func TestTimeLeft(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 2*time.Hour + 15*time.Minute + 30*time.Second, want: "2h 15m"},
		{in: 28 * time.Minute, want: "28m"},
		{in: 45 * time.Second, want: "45s"},
		{in: 500 * time.Millisecond, want: "0s"},
		{in: 0, want: "ended"},
		{in: -time.Minute, want: "ended"},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, TimeLeft(tc.in), tc.in.String())
	}
}
