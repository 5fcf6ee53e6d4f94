package messaging

import "github.com/sketchaa/sketchaa/internal/domain"

const (
	RoomEventsQueue = "room_events"
	DeadLetterQueue = "dead_letter_queue"
)

type RoomEventData struct {
	Log domain.RoomAuditLog `json:"log"`
}
