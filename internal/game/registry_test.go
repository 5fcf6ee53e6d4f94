package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchaa/sketchaa/internal/domain"
)

func seedRoom(t *testing.T, r *Registry, code string) *Room {
	t.Helper()
	room, err := r.Create(domain.NewRoom(code, &domain.Player{ID: "p1", Name: "Alice"}, "banana", time.Now()))
	require.NoError(t, err)
	return room
}

func TestRegistry_CreateAndGetNormalizeCodes(t *testing.T) {
	r := NewRegistry(10)
	seedRoom(t, r, "ABC234")

	room, err := r.Get(" abc234 ")
	require.NoError(t, err)
	assert.Equal(t, "ABC234", room.State.Code)

	_, err = r.Get("NOPE99")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRegistry_DuplicateCode(t *testing.T) {
	r := NewRegistry(10)
	seedRoom(t, r, "ABC234")

	_, err := r.Create(domain.NewRoom("abc234", &domain.Player{ID: "p2"}, "", time.Now()))
	assert.ErrorIs(t, err, domain.ErrRoomCodeTaken)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Capacity(t *testing.T) {
	r := NewRegistry(2)
	seedRoom(t, r, "AAA234")
	seedRoom(t, r, "BBB234")

	_, err := r.Create(domain.NewRoom("CCC234", &domain.Player{ID: "p3"}, "", time.Now()))
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestRegistry_ConnBinding(t *testing.T) {
	r := NewRegistry(10)
	seedRoom(t, r, "ABC234")

	r.Bind("conn-1", "abc234")

	room, ok := r.RoomForConn("conn-1")
	require.True(t, ok)
	assert.Equal(t, "ABC234", room.State.Code)

	r.Unbind("conn-1")
	_, ok = r.RoomForConn("conn-1")
	assert.False(t, ok)
}

func TestRegistry_EvictIdle(t *testing.T) {
	r := NewRegistry(10)
	old := seedRoom(t, r, "OLD234")
	old.State.CreatedAt = time.Now().Add(-time.Hour)

	seedRoom(t, r, "NEW234")

	// A connected player protects an old room.
	connected := seedRoom(t, r, "LIV234")
	connected.State.CreatedAt = time.Now().Add(-time.Hour)
	connected.State.Players[0].Conn = newFakeConn("conn-live")

	evicted := r.EvictIdle(30*time.Minute, time.Now())

	assert.Equal(t, []string{"OLD234"}, evicted)
	assert.Equal(t, 2, r.Len())

	_, err := r.Get("OLD234")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.True(t, old.deleted)
}
