package protocol

import "encoding/json"

// Event is the envelope for every outbound message.
type Event struct {
	Type string `json:"type"`
	Room string `json:"roomCode,omitempty"`
	Data any    `json:"data,omitempty"`
}

// Envelope is the inbound counterpart; Data stays raw until the
// event name selects a concrete request type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Payload structs
type PlayerPayload struct {
	ID        string `json:"playerId"`
	Name      string `json:"playerName"`
	IsHost    bool   `json:"isHost"`
	Character string `json:"character,omitempty"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

type GameStatePayload struct {
	Phase         string `json:"phase"`
	IsStarted     bool   `json:"isStarted"`
	StartTime     int64  `json:"startTime,omitempty"`
	Duration      int    `json:"duration"`
	RemainingTime int    `json:"remainingTime"`
}

type RoomStatePayload struct {
	RoomCode     string           `json:"roomCode"`
	Players      []PlayerPayload  `json:"players"`
	SelectedWord string           `json:"selectedWord"`
	ChatMessages []ChatPayload    `json:"chatMessages,omitempty"`
	GameState    GameStatePayload `json:"gameState"`
}

type ChatPayload struct {
	ID         int64  `json:"id"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Character  string `json:"character,omitempty"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

type GameStartedPayload struct {
	StartTime int64 `json:"startTime"`
	Duration  int   `json:"duration"`
}

type PhaseEndedPayload struct {
	Message  string `json:"message"`
	Duration int    `json:"duration,omitempty"`
}

type AckPayload struct {
	Success bool `json:"success"`
}

type ScoreSubmittedPayload struct {
	Success         bool    `json:"success"`
	TargetPlayerID  string  `json:"targetPlayerId"`
	NewTotalScore   int     `json:"newTotalScore"`
	NewTotalVotes   int     `json:"newTotalVotes"`
	NewAverageScore float64 `json:"newAverageScore"`
}

type VotingCompletePayload struct {
	Message        string `json:"message"`
	CanViewResults bool   `json:"canViewResults"`
}

type ResultPayload struct {
	PlayerID     string  `json:"playerId"`
	PlayerName   string  `json:"playerName"`
	Character    string  `json:"character,omitempty"`
	Image        string  `json:"image,omitempty"`
	HasSubmitted bool    `json:"hasSubmitted"`
	TotalScore   int     `json:"totalScore"`
	TotalVotes   int     `json:"totalVotes"`
	AverageScore float64 `json:"averageScore"`
	Scores       []int   `json:"scores,omitempty"`
	Rank         int     `json:"rank,omitempty"`
}

type RoomDrawingsPayload struct {
	RoomCode     string          `json:"roomCode"`
	SelectedWord string          `json:"selectedWord"`
	Results      []ResultPayload `json:"results"`
}

type ScoringHistoryPayload struct {
	ScoredDrawings []string `json:"scoredDrawings"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewError(roomCode, message string) *Event {
	return &Event{
		Type: RoomError,
		Room: roomCode,
		Data: ErrorPayload{Message: message},
	}
}

func NewScoreError(roomCode, message string) *Event {
	return &Event{
		Type: ScoreError,
		Room: roomCode,
		Data: ErrorPayload{Message: message},
	}
}

func NewPlayersUpdated(roomCode string, players []PlayerPayload) *Event {
	return &Event{
		Type: PlayersUpdated,
		Room: roomCode,
		Data: players,
	}
}

func NewWordUpdated(roomCode, word string) *Event {
	return &Event{
		Type: WordUpdated,
		Room: roomCode,
		Data: word,
	}
}

func NewGameStateUpdated(roomCode string, state GameStatePayload) *Event {
	return &Event{
		Type: GameStateUpdated,
		Room: roomCode,
		Data: state,
	}
}

func NewTimeUpdate(roomCode string, remaining int) *Event {
	return &Event{
		Type: TimeUpdate,
		Room: roomCode,
		Data: remaining,
	}
}

func NewNewMessage(roomCode string, msg ChatPayload) *Event {
	return &Event{
		Type: NewMessage,
		Room: roomCode,
		Data: msg,
	}
}

func NewVotingComplete(roomCode, message string) *Event {
	return &Event{
		Type: VotingComplete,
		Room: roomCode,
		Data: VotingCompletePayload{
			Message:        message,
			CanViewResults: true,
		},
	}
}

func NewGameResults(roomCode string, results []ResultPayload) *Event {
	return &Event{
		Type: GameResults,
		Room: roomCode,
		Data: results,
	}
}
