package protocol

// Inbound request payloads, decoded from Envelope.Data once the
// event name is known.

type CreateRoomRequest struct {
	RoomCode     string        `json:"roomCode"`
	HostPlayer   PlayerPayload `json:"hostPlayer"`
	SelectedWord string        `json:"selectedWord"`
}

type JoinRoomRequest struct {
	RoomCode string        `json:"roomCode"`
	Player   PlayerPayload `json:"player"`
}

type RejoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

type StartGameRequest struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

type ChangeWordRequest struct {
	RoomCode string `json:"roomCode"`
	NewWord  string `json:"newWord"`
	PlayerID string `json:"playerId"`
}

type SendMessageRequest struct {
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
	PlayerID string `json:"playerId"`
}

type SubmitDrawingRequest struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Image    string `json:"image"`
}

type SubmitScoreRequest struct {
	RoomCode       string `json:"roomCode"`
	ScorerID       string `json:"scorerId"`
	TargetPlayerID string `json:"targetPlayerId"`
	Score          int    `json:"score"`
}

type RoomRequest struct {
	RoomCode string `json:"roomCode"`
}

type PlayerRoomRequest struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}
