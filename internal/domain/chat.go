package domain

import "time"

const (
	MaxChatMessages  = 100
	MaxMessageLength = 500
)

type ChatMessage struct {
	ID         int64     `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Character  string    `json:"character,omitempty"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatLog is a bounded append-only message buffer. Messages are
// truncated to MaxMessageLength runes and the oldest entries are
// evicted once the buffer exceeds MaxChatMessages.
type ChatLog struct {
	messages []ChatMessage
	nextID   int64
}

func NewChatLog() *ChatLog {
	return &ChatLog{
		messages: make([]ChatMessage, 0, MaxChatMessages),
		nextID:   1,
	}
}

func (c *ChatLog) Append(player *Player, text string, now time.Time) ChatMessage {
	if runes := []rune(text); len(runes) > MaxMessageLength {
		text = string(runes[:MaxMessageLength])
	}

	msg := ChatMessage{
		ID:         c.nextID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Character:  player.Character,
		Message:    text,
		Timestamp:  now,
	}
	c.nextID++

	c.messages = append(c.messages, msg)
	if len(c.messages) > MaxChatMessages {
		c.messages = c.messages[len(c.messages)-MaxChatMessages:]
	}

	return msg
}

func (c *ChatLog) Messages() []ChatMessage {
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *ChatLog) Len() int {
	return len(c.messages)
}
