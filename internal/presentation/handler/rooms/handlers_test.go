package rooms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchaa/sketchaa/internal/game"
	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/protocol"
	"github.com/sketchaa/sketchaa/pkg/client"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	coordinator := game.NewCoordinator(game.DefaultConfig(), game.NewRegistry(10), logging.NewNopLogger(), nil, nil)
	handler := NewHandler(coordinator, logging.NewNopLogger())

	r := chi.NewRouter()
	r.Get("/ws", handler.ConnectHandler)
	r.Get("/api/rooms/{roomCode}", handler.GetRoomHandler)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// collector buffers events from a client's Listen loop.
type collector struct {
	events chan client.Event
}

func newCollector(ctx context.Context, t *testing.T, c *client.Client) *collector {
	t.Helper()

	col := &collector{events: make(chan client.Event, 64)}
	c.SetEventHandler(func(ev client.Event) {
		col.events <- ev
	})
	go c.Listen(ctx)
	return col
}

// expect waits for the next event of the wanted type, skipping
// unrelated fan-out such as time updates.
func (col *collector) expect(t *testing.T, eventType string) client.Event {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-col.events:
			if ev.Type == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", eventType)
			return client.Event{}
		}
	}
}

func TestWebsocket_CreateJoinChat(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	host, err := client.Dial(ctx, srv.URL)
	require.NoError(t, err)
	defer host.Close()
	hostEvents := newCollector(ctx, t, host)

	require.NoError(t, host.CreateRoom("ABC234", "p1", "Alice", "cat", "banana"))
	created := hostEvents.expect(t, protocol.RoomCreated)
	assert.Equal(t, "ABC234", created.Room)

	var state protocol.RoomStatePayload
	require.NoError(t, json.Unmarshal(created.Data, &state))
	assert.Equal(t, "banana", state.SelectedWord)
	require.Len(t, state.Players, 1)
	assert.True(t, state.Players[0].IsHost)

	guest, err := client.Dial(ctx, srv.URL)
	require.NoError(t, err)
	defer guest.Close()
	guestEvents := newCollector(ctx, t, guest)

	require.NoError(t, guest.JoinRoom("ABC234", "p2", "Bob", "dog"))
	guestEvents.expect(t, protocol.RoomJoined)

	updated := hostEvents.expect(t, protocol.PlayersUpdated)
	var players []protocol.PlayerPayload
	require.NoError(t, json.Unmarshal(updated.Data, &players))
	assert.Len(t, players, 2)

	require.NoError(t, guest.SendMessage("ABC234", "p2", "hello there"))
	msg := hostEvents.expect(t, protocol.NewMessage)
	var chat protocol.ChatPayload
	require.NoError(t, json.Unmarshal(msg.Data, &chat))
	assert.Equal(t, "hello there", chat.Message)
	assert.Equal(t, "p2", chat.PlayerID)
}

func TestWebsocket_ErrorKeepsConnectionAlive(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := client.Dial(ctx, srv.URL)
	require.NoError(t, err)
	defer c.Close()
	events := newCollector(ctx, t, c)

	// A request for a room that does not exist gets an error back,
	// and the connection survives it.
	require.NoError(t, c.SendMessage("", "", ""))
	events.expect(t, protocol.RoomError)

	require.NoError(t, c.CreateRoom("ABC234", "p1", "Alice", "", "banana"))
	events.expect(t, protocol.RoomCreated)
}

func TestWebsocket_DisconnectRemovesPlayer(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	host, err := client.Dial(ctx, srv.URL)
	require.NoError(t, err)
	defer host.Close()
	hostEvents := newCollector(ctx, t, host)

	require.NoError(t, host.CreateRoom("ABC234", "p1", "Alice", "", "banana"))
	hostEvents.expect(t, protocol.RoomCreated)

	guest, err := client.Dial(ctx, srv.URL)
	require.NoError(t, err)
	guestEvents := newCollector(ctx, t, guest)

	require.NoError(t, guest.JoinRoom("ABC234", "p2", "Bob", ""))
	guestEvents.expect(t, protocol.RoomJoined)
	hostEvents.expect(t, protocol.PlayersUpdated)

	require.NoError(t, guest.Close())

	assert.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/rooms/ABC234")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var state protocol.RoomStatePayload
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			return false
		}
		return len(state.Players) == 1 && state.Players[0].ID == "p1"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestGetRoomHandler_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/rooms/NOPE99")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
