package contracts

import "github.com/sketchaa/sketchaa/internal/domain"

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomCode string `json:"roomCode"`
	Data     []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventRoomCreated  = "room.created"
	EventRoomDeleted  = "room.deleted"
	EventPlayerJoined = "room.player.joined"
	EventPlayerLeft   = "room.player.left"
	EventHostChanged  = "room.host.changed"
	EventGameStarted  = "game.started"
	EventGameEnded    = "game.ended"
)

var routingKeys = map[domain.RoomEventType]string{
	domain.EventRoomCreated:  EventRoomCreated,
	domain.EventRoomDeleted:  EventRoomDeleted,
	domain.EventPlayerJoined: EventPlayerJoined,
	domain.EventPlayerLeft:   EventPlayerLeft,
	domain.EventHostChanged:  EventHostChanged,
	domain.EventGameStarted:  EventGameStarted,
	domain.EventGameEnded:    EventGameEnded,
}

// RoutingKey maps an audit event type onto its AMQP routing key.
func RoutingKey(eventType domain.RoomEventType) string {
	if key, ok := routingKeys[eventType]; ok {
		return key
	}
	return "room.unknown"
}

// AllRoutingKeys lists every key a room event queue should bind.
func AllRoutingKeys() []string {
	keys := make([]string, 0, len(routingKeys))
	for _, key := range routingKeys {
		keys = append(keys, key)
	}
	return keys
}
