package domain

import (
	"time"
)

// GamePhase governs which actions are currently legal in a room.
type GamePhase string

const (
	PhaseLobby   GamePhase = "lobby"
	PhaseDrawing GamePhase = "drawing"
	PhaseJudging GamePhase = "judging"
	PhaseResults GamePhase = "results"
)

const RoomCodeLength = 6

// Room holds all state of one game session. It is a plain entity:
// callers are responsible for serializing access (the game package
// guards every room behind its own mutex).
type Room struct {
	Code      string
	Players   []*Player // insertion order = join order
	Word      string
	Phase     GamePhase
	CreatedAt time.Time

	// Timer state for the current timed phase (Drawing or Judging).
	StartedAt time.Time
	Duration  time.Duration

	Chat        *ChatLog
	Submissions *SubmissionStore
	Scores      *Scoreboard
}

func NewRoom(code string, host *Player, word string, now time.Time) *Room {
	host.IsHost = true

	return &Room{
		Code:        code,
		Players:     []*Player{host},
		Word:        word,
		Phase:       PhaseLobby,
		CreatedAt:   now,
		Chat:        NewChatLog(),
		Submissions: NewSubmissionStore(),
		Scores:      NewScoreboard(),
	}
}

func (r *Room) FindPlayer(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) FindPlayerByConn(connID string) *Player {
	for _, p := range r.Players {
		if p.Conn != nil && p.Conn.ConnID() == connID {
			return p
		}
	}
	return nil
}

func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// AddPlayer appends a new player, or rebinds the connection when the
// same player id is already present (a refresh arriving as a join).
// Returns true when the player was genuinely new.
func (r *Room) AddPlayer(p *Player) bool {
	if existing := r.FindPlayer(p.ID); existing != nil {
		existing.Name = p.Name
		existing.Character = p.Character
		existing.Conn = p.Conn
		return false
	}

	p.IsHost = len(r.Players) == 0
	r.Players = append(r.Players, p)
	return true
}

// Rebind attaches a live connection to an existing player without
// touching join order or phase.
func (r *Room) Rebind(playerID string, conn Conn) *Player {
	p := r.FindPlayer(playerID)
	if p == nil {
		return nil
	}
	p.Conn = conn
	return p
}

// RemovePlayer drops a player and reassigns the host role to the
// earliest-joined remaining player when needed. Reports the removed
// player and whether the host changed.
func (r *Room) RemovePlayer(playerID string) (removed *Player, hostChanged bool) {
	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}

	removed = r.Players[idx]
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if removed.IsHost && len(r.Players) > 0 {
		r.Players[0].IsHost = true
		hostChanged = true
	}
	return removed, hostChanged
}

func (r *Room) Empty() bool {
	return len(r.Players) == 0
}

// Remaining recomputes the seconds left in the current timed phase
// from the start instant, clamped at zero, so that late or jittery
// reads self-correct instead of drifting.
func (r *Room) Remaining(now time.Time) int {
	if r.StartedAt.IsZero() || r.Duration <= 0 {
		return int(r.Duration.Seconds())
	}
	elapsed := int(now.Sub(r.StartedAt).Seconds())
	remaining := int(r.Duration.Seconds()) - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetRound re-arms submissions and scores for a fresh round without
// touching the player list.
func (r *Room) ResetRound() {
	r.Phase = PhaseLobby
	r.StartedAt = time.Time{}
	r.Duration = 0
	r.Submissions.Reset()
	r.Scores.Reset()
}
