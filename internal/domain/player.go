package domain

import "github.com/sketchaa/sketchaa/internal/protocol"

// Conn is a live connection to a player. Sends must never block the
// caller; implementations buffer and drop instead.
type Conn interface {
	ConnID() string
	SendEvent(ev *protocol.Event)
	Close() error
}

// Player is a room member. ID is client-chosen and stable across
// reconnects; Conn is nil while the player is disconnected.
type Player struct {
	ID        string `json:"playerId"`
	Name      string `json:"playerName"`
	IsHost    bool   `json:"isHost"`
	Character string `json:"character,omitempty"`
	Score     int    `json:"score"`

	Conn Conn `json:"-"`
}

func (p *Player) Connected() bool {
	return p != nil && p.Conn != nil
}
