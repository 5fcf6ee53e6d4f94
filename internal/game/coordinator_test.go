package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchaa/sketchaa/internal/domain"
	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/protocol"
)

// fakeConn records every event it is handed, for asserting on fan-out.
type fakeConn struct {
	id string

	mu     sync.Mutex
	events []*protocol.Event
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ConnID() string { return f.id }
func (f *fakeConn) Close() error   { return nil }

func (f *fakeConn) SendEvent(ev *protocol.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeConn) count(eventType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, ev := range f.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func (f *fakeConn) last(eventType string) *protocol.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Type == eventType {
			return f.events[i]
		}
	}
	return nil
}

func newTestCoordinator(cfg Config) *Coordinator {
	return NewCoordinator(cfg, NewRegistry(cfg.MaxRooms), logging.NewNopLogger(), nil, nil)
}

// createRoomWith seeds a room with a host and n-1 extra players, all
// in the lobby.
func createRoomWith(t *testing.T, c *Coordinator, code string, n int) []*fakeConn {
	t.Helper()

	conns := make([]*fakeConn, n)
	conns[0] = newFakeConn("conn-1")
	c.CreateRoom(context.Background(), conns[0], protocol.CreateRoomRequest{
		RoomCode:     code,
		HostPlayer:   protocol.PlayerPayload{ID: "p1", Name: "Alice"},
		SelectedWord: "banana",
	})
	require.Equal(t, 1, conns[0].count(protocol.RoomCreated))

	names := []string{"", "Bob", "Carol", "Dave"}
	for i := 1; i < n; i++ {
		conns[i] = newFakeConn("conn-" + string(rune('1'+i)))
		c.JoinRoom(context.Background(), conns[i], protocol.JoinRoomRequest{
			RoomCode: code,
			Player:   protocol.PlayerPayload{ID: "p" + string(rune('1'+i)), Name: names[i]},
		})
		require.Equal(t, 1, conns[i].count(protocol.RoomJoined))
	}
	return conns
}

func TestCreateRoom(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conn := newFakeConn("conn-1")

	c.CreateRoom(context.Background(), conn, protocol.CreateRoomRequest{
		RoomCode:     "abc234",
		HostPlayer:   protocol.PlayerPayload{ID: "p1", Name: "Alice"},
		SelectedWord: "banana",
	})

	require.Equal(t, 1, conn.count(protocol.RoomCreated))
	assert.Equal(t, 1, c.Registry().Len())

	// Codes are normalized to upper case.
	snapshot, err := c.Snapshot("ABC234")
	require.NoError(t, err)
	assert.Equal(t, "banana", snapshot.SelectedWord)
	assert.Equal(t, string(domain.PhaseLobby), snapshot.GameState.Phase)
}

func TestCreateRoom_GeneratesCodeWhenEmpty(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conn := newFakeConn("conn-1")

	c.CreateRoom(context.Background(), conn, protocol.CreateRoomRequest{
		HostPlayer: protocol.PlayerPayload{ID: "p1", Name: "Alice"},
	})

	ev := conn.last(protocol.RoomCreated)
	require.NotNil(t, ev)
	assert.Len(t, ev.Room, domain.RoomCodeLength)
}

func TestCreateRoom_DuplicateCodeRejected(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	createRoomWith(t, c, "ABC234", 1)

	conn := newFakeConn("conn-2")
	c.CreateRoom(context.Background(), conn, protocol.CreateRoomRequest{
		RoomCode:   "abc234",
		HostPlayer: protocol.PlayerPayload{ID: "p9", Name: "Zoe"},
	})

	assert.Equal(t, 0, conn.count(protocol.RoomCreated))
	assert.Equal(t, 1, conn.count(protocol.RoomError))
}

func TestCreateRoom_InvalidInputRejected(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conn := newFakeConn("conn-1")

	c.CreateRoom(context.Background(), conn, protocol.CreateRoomRequest{
		RoomCode:   "ABC234",
		HostPlayer: protocol.PlayerPayload{ID: "  ", Name: "Alice"},
	})

	assert.Equal(t, 1, conn.count(protocol.RoomError))
	assert.Equal(t, 0, c.Registry().Len())
}

func TestJoinRoom_BroadcastsToEveryone(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	// The host saw the join fan-out; the joiner got a private ack.
	assert.Equal(t, 1, conns[0].count(protocol.PlayersUpdated))
	assert.Equal(t, 0, conns[0].count(protocol.RoomJoined))
	assert.Equal(t, 1, conns[1].count(protocol.RoomJoined))
}

func TestJoinRoom_RejectedOnceStarted(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.StartGame(context.Background(), conns[0], protocol.StartGameRequest{RoomCode: "ABC234", PlayerID: "p1"})

	late := newFakeConn("conn-9")
	c.JoinRoom(context.Background(), late, protocol.JoinRoomRequest{
		RoomCode: "ABC234",
		Player:   protocol.PlayerPayload{ID: "p9", Name: "Zoe"},
	})

	assert.Equal(t, 0, late.count(protocol.RoomJoined))
	assert.Equal(t, 1, late.count(protocol.RoomError))
}

func TestJoinRoom_UnknownRoom(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conn := newFakeConn("conn-1")

	c.JoinRoom(context.Background(), conn, protocol.JoinRoomRequest{
		RoomCode: "NOPE99",
		Player:   protocol.PlayerPayload{ID: "p1", Name: "Alice"},
	})

	assert.Equal(t, 1, conn.count(protocol.RoomError))
}

func TestRejoinRoom_RebindsExistingPlayerOnly(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.StartGame(context.Background(), conns[0], protocol.StartGameRequest{RoomCode: "ABC234", PlayerID: "p1"})

	// Mid-game rejoin with a known id works.
	fresh := newFakeConn("conn-fresh")
	c.RejoinRoom(context.Background(), fresh, protocol.RejoinRoomRequest{RoomCode: "ABC234", PlayerID: "p2"})
	assert.Equal(t, 1, fresh.count(protocol.RoomRejoined))

	// Unknown id cannot sneak in through rejoin.
	stranger := newFakeConn("conn-stranger")
	c.RejoinRoom(context.Background(), stranger, protocol.RejoinRoomRequest{RoomCode: "ABC234", PlayerID: "p9"})
	assert.Equal(t, 0, stranger.count(protocol.RoomRejoined))
	assert.Equal(t, 1, stranger.count(protocol.RoomError))
}

func TestStartGame_HostOnly(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.StartGame(context.Background(), conns[1], protocol.StartGameRequest{RoomCode: "ABC234", PlayerID: "p2"})
	assert.Equal(t, 1, conns[1].count(protocol.RoomError))
	assert.Equal(t, 0, conns[0].count(protocol.GameStarted))

	c.StartGame(context.Background(), conns[0], protocol.StartGameRequest{RoomCode: "ABC234", PlayerID: "p1"})
	assert.Equal(t, 1, conns[0].count(protocol.GameStarted))
	assert.Equal(t, 1, conns[1].count(protocol.GameStarted))

	// Starting twice fails.
	c.StartGame(context.Background(), conns[0], protocol.StartGameRequest{RoomCode: "ABC234", PlayerID: "p1"})
	assert.Equal(t, 1, conns[0].count(protocol.RoomError))
}

func TestChangeWord(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	// Non-host cannot change the word.
	c.ChangeWord(conns[1], protocol.ChangeWordRequest{RoomCode: "ABC234", PlayerID: "p2", NewWord: "apple"})
	assert.Equal(t, 1, conns[1].count(protocol.RoomError))

	c.ChangeWord(conns[0], protocol.ChangeWordRequest{RoomCode: "ABC234", PlayerID: "p1", NewWord: "apple"})
	ev := conns[1].last(protocol.WordUpdated)
	require.NotNil(t, ev)

	snapshot, err := c.Snapshot("ABC234")
	require.NoError(t, err)
	assert.Equal(t, "apple", snapshot.SelectedWord)
}

func TestSendMessage(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.SendMessage(conns[1], protocol.SendMessageRequest{RoomCode: "ABC234", PlayerID: "p2", Message: "  hello  "})

	ev := conns[0].last(protocol.NewMessage)
	require.NotNil(t, ev)
	payload, ok := ev.Data.(protocol.ChatPayload)
	require.True(t, ok)
	assert.Equal(t, "hello", payload.Message)
	assert.Equal(t, "p2", payload.PlayerID)

	// Blank messages are rejected without fan-out.
	c.SendMessage(conns[1], protocol.SendMessageRequest{RoomCode: "ABC234", PlayerID: "p2", Message: "   "})
	assert.Equal(t, 1, conns[1].count(protocol.RoomError))
	assert.Equal(t, 1, conns[0].count(protocol.NewMessage))
}

func TestSubmitDrawing_AckIsPrivate(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.SubmitDrawing(conns[1], protocol.SubmitDrawingRequest{RoomCode: "ABC234", PlayerID: "p2", Image: "data:image/png;base64,xyz"})

	assert.Equal(t, 1, conns[1].count(protocol.DrawingSubmitted))
	assert.Equal(t, 0, conns[0].count(protocol.DrawingSubmitted))
}

func TestSubmitScore_AckPrivateAndDuplicateRejected(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 3)

	c.SubmitDrawing(conns[0], protocol.SubmitDrawingRequest{RoomCode: "ABC234", PlayerID: "p1", Image: "img1"})

	c.SubmitScore(conns[1], protocol.SubmitScoreRequest{RoomCode: "ABC234", ScorerID: "p2", TargetPlayerID: "p1", Score: 8})

	ev := conns[1].last(protocol.ScoreSubmitted)
	require.NotNil(t, ev)
	payload, ok := ev.Data.(protocol.ScoreSubmittedPayload)
	require.True(t, ok)
	assert.Equal(t, 8, payload.NewTotalScore)
	assert.Equal(t, 1, payload.NewTotalVotes)
	assert.Equal(t, 8.00, payload.NewAverageScore)

	// Nobody else learns who scored whom.
	assert.Equal(t, 0, conns[0].count(protocol.ScoreSubmitted))
	assert.Equal(t, 0, conns[2].count(protocol.ScoreSubmitted))

	// A second rating of the same target is rejected and changes nothing.
	c.SubmitScore(conns[1], protocol.SubmitScoreRequest{RoomCode: "ABC234", ScorerID: "p2", TargetPlayerID: "p1", Score: 3})
	assert.Equal(t, 1, conns[1].count(protocol.ScoreError))
	assert.Equal(t, 1, conns[1].count(protocol.ScoreSubmitted))
}

func TestSubmitScore_SelfScoreRejected(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.SubmitDrawing(conns[0], protocol.SubmitDrawingRequest{RoomCode: "ABC234", PlayerID: "p1", Image: "img1"})
	c.SubmitScore(conns[0], protocol.SubmitScoreRequest{RoomCode: "ABC234", ScorerID: "p1", TargetPlayerID: "p1", Score: 5})

	assert.Equal(t, 1, conns[0].count(protocol.ScoreError))
}

func TestSubmitScore_VotingCompleteBroadcastOnce(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.SubmitDrawing(conns[0], protocol.SubmitDrawingRequest{RoomCode: "ABC234", PlayerID: "p1", Image: "img1"})
	c.SubmitDrawing(conns[1], protocol.SubmitDrawingRequest{RoomCode: "ABC234", PlayerID: "p2", Image: "img2"})

	c.SubmitScore(conns[0], protocol.SubmitScoreRequest{RoomCode: "ABC234", ScorerID: "p1", TargetPlayerID: "p2", Score: 7})
	assert.Equal(t, 0, conns[0].count(protocol.VotingComplete))

	c.SubmitScore(conns[1], protocol.SubmitScoreRequest{RoomCode: "ABC234", ScorerID: "p2", TargetPlayerID: "p1", Score: 9})
	assert.Equal(t, 1, conns[0].count(protocol.VotingComplete))
	assert.Equal(t, 1, conns[1].count(protocol.VotingComplete))
}

func TestRoomDrawingsAndScoringHistory(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.SubmitDrawing(conns[0], protocol.SubmitDrawingRequest{RoomCode: "ABC234", PlayerID: "p1", Image: "img1"})
	c.SubmitScore(conns[1], protocol.SubmitScoreRequest{RoomCode: "ABC234", ScorerID: "p2", TargetPlayerID: "p1", Score: 6})

	c.RoomDrawings(conns[1], protocol.RoomRequest{RoomCode: "ABC234"})
	ev := conns[1].last(protocol.RoomDrawings)
	require.NotNil(t, ev)
	payload, ok := ev.Data.(protocol.RoomDrawingsPayload)
	require.True(t, ok)
	assert.Equal(t, "banana", payload.SelectedWord)
	require.Len(t, payload.Results, 2)
	assert.Equal(t, "p1", payload.Results[0].PlayerID)

	c.ScoringHistory(conns[1], protocol.PlayerRoomRequest{RoomCode: "ABC234", PlayerID: "p2"})
	hev := conns[1].last(protocol.ScoringHistory)
	require.NotNil(t, hev)
	history, ok := hev.Data.(protocol.ScoringHistoryPayload)
	require.True(t, ok)
	assert.Equal(t, []string{"p1"}, history.ScoredDrawings)
}

func TestDisconnect_PromotesEarliestRemaining(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 3)

	c.Disconnect(context.Background(), conns[0])

	ev := conns[1].last(protocol.HostUpdated)
	require.NotNil(t, ev)
	players, ok := ev.Data.([]protocol.PlayerPayload)
	require.True(t, ok)
	require.Len(t, players, 2)
	assert.Equal(t, "p2", players[0].ID)
	assert.True(t, players[0].IsHost)
	assert.False(t, players[1].IsHost)
}

func TestDisconnect_LastPlayerDeletesRoom(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	c.Disconnect(context.Background(), conns[0])
	c.Disconnect(context.Background(), conns[1])

	assert.Equal(t, 0, c.Registry().Len())

	// Coming back after the room is gone is a hard miss.
	ghost := newFakeConn("conn-ghost")
	c.RejoinRoom(context.Background(), ghost, protocol.RejoinRoomRequest{RoomCode: "ABC234", PlayerID: "p2"})
	assert.Equal(t, 1, ghost.count(protocol.RoomError))
}

func TestDisconnect_UnknownConnIsNoop(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	createRoomWith(t, c, "ABC234", 1)

	c.Disconnect(context.Background(), newFakeConn("conn-ghost"))
	assert.Equal(t, 1, c.Registry().Len())
}

func TestResetRound_HostOnlyFromResults(t *testing.T) {
	c := newTestCoordinator(DefaultConfig())
	conns := createRoomWith(t, c, "ABC234", 2)

	// Not in Results yet.
	c.ResetRound(conns[0], protocol.PlayerRoomRequest{RoomCode: "ABC234", PlayerID: "p1"})
	assert.Equal(t, 1, conns[0].count(protocol.RoomError))

	room, err := c.Registry().Get("ABC234")
	require.NoError(t, err)
	room.mu.Lock()
	room.State.Phase = domain.PhaseResults
	room.State.Submissions.Submit("p1", "img", time.Now())
	room.mu.Unlock()

	c.ResetRound(conns[0], protocol.PlayerRoomRequest{RoomCode: "ABC234", PlayerID: "p1"})

	snapshot, err := c.Snapshot("ABC234")
	require.NoError(t, err)
	assert.Equal(t, string(domain.PhaseLobby), snapshot.GameState.Phase)
	require.Len(t, snapshot.Players, 2)
}

func TestRegistry_CapacityExceeded(t *testing.T) {
	c := newTestCoordinator(Config{
		DrawingTime:  time.Minute,
		JudgingTime:  time.Minute,
		TickInterval: time.Second,
		MaxRooms:     1,
	})
	createRoomWith(t, c, "ABC234", 1)

	conn := newFakeConn("conn-2")
	c.CreateRoom(context.Background(), conn, protocol.CreateRoomRequest{
		RoomCode:   "XYZ789",
		HostPlayer: protocol.PlayerPayload{ID: "p9", Name: "Zoe"},
	})

	assert.Equal(t, 1, conn.count(protocol.RoomError))
	assert.Equal(t, 1, c.Registry().Len())
}
