package game

import (
	"strings"
	"sync"
	"time"

	"github.com/sketchaa/sketchaa/internal/domain"
)

// Room pairs a room's state with the mutex that serializes every
// mutation on it and the timer driving its current phase. All access
// to State goes through withRoom on the coordinator.
type Room struct {
	mu      sync.Mutex
	State   *domain.Room
	timer   *phaseTimer
	deleted bool
}

// Registry is the in-memory room index plus the connection-to-room
// session tracker. Its own lock guards only the maps; per-room state
// is guarded by each Room's mutex so rooms never block each other.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	conns    map[string]string // conn id -> room code
	maxRooms int
}

func NewRegistry(maxRooms int) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		conns:    make(map[string]string),
		maxRooms: maxRooms,
	}
}

func (r *Registry) Create(room *domain.Room) (*Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := normalizeCode(room.Code)
	if _, exists := r.rooms[code]; exists {
		return nil, domain.ErrRoomCodeTaken
	}
	if r.maxRooms > 0 && len(r.rooms) >= r.maxRooms {
		return nil, domain.ErrCapacityExceeded
	}

	wrapped := &Room{State: room}
	r.rooms[code] = wrapped
	return wrapped, nil
}

func (r *Registry) Get(code string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[normalizeCode(code)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (r *Registry) Delete(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, normalizeCode(code))
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Bind records which room a connection currently belongs to, so a
// close on the socket can be routed back to the right room.
func (r *Registry) Bind(connID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = normalizeCode(code)
}

func (r *Registry) Unbind(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
}

func (r *Registry) RoomForConn(connID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	room, ok := r.rooms[code]
	return room, ok
}

// EvictIdle removes rooms older than maxIdle with no connected
// players, returning the codes it removed. A safety net for rooms
// whose sockets died without a clean disconnect.
func (r *Registry) EvictIdle(maxIdle time.Duration, now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for code, room := range r.rooms {
		room.mu.Lock()
		idle := room.idleLocked(maxIdle, now)
		if idle {
			room.deleted = true
			if room.timer != nil {
				room.timer.Stop()
			}
		}
		room.mu.Unlock()

		if idle {
			delete(r.rooms, code)
			evicted = append(evicted, code)
		}
	}
	return evicted
}

func (room *Room) idleLocked(maxIdle time.Duration, now time.Time) bool {
	if now.Sub(room.State.CreatedAt) < maxIdle {
		return false
	}
	for _, p := range room.State.Players {
		if p.Connected() {
			return false
		}
	}
	return true
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
