package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RoomEventType string

const (
	EventRoomCreated  RoomEventType = "room_created"
	EventRoomDeleted  RoomEventType = "room_deleted"
	EventPlayerJoined RoomEventType = "player_joined"
	EventPlayerLeft   RoomEventType = "player_left"
	EventHostChanged  RoomEventType = "host_changed"
	EventGameStarted  RoomEventType = "game_started"
	EventGameEnded    RoomEventType = "game_ended"
)

type RoomAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomCode  string         `bson:"room_code" json:"roomCode"`
	EventType RoomEventType  `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	GetByRoomCode(ctx context.Context, roomCode string, limit int) ([]RoomAuditLog, error)
	GetByEventType(ctx context.Context, eventType RoomEventType, from, to time.Time) ([]RoomAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewRoomAuditLog(roomCode string, eventType RoomEventType, metadata map[string]any) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomCode:  roomCode,
		EventType: eventType,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
