package protocol

// Inbound event names.
const (
	CreateRoom        = "create-room"
	JoinRoom          = "join-room"
	RejoinRoom        = "rejoin-room"
	StartGame         = "start-game"
	ChangeWord        = "change-word"
	SendMessage       = "send-message"
	SubmitDrawing     = "submit-drawing"
	SubmitScore       = "submit-score"
	GetRoomDrawings   = "get-room-drawings"
	GetScoringHistory = "get-scoring-history"
	RequestResults    = "request-game-results"
	GetRoomInfo       = "get-room-info"
	ResetRound        = "reset-round"
)

// Outbound event names.
const (
	RoomCreated  = "room-created"
	RoomJoined   = "room-joined"
	RoomRejoined = "room-rejoined"

	PlayersUpdated   = "players-updated"
	HostUpdated      = "host-updated"
	WordUpdated      = "word-updated"
	GameStateUpdated = "game-state-updated"

	GameStarted       = "game-started"
	TimeUpdate        = "time-update"
	GameEnded         = "game-ended"
	DrawingPhaseEnded = "drawing-phase-ended"
	JudgingStarted    = "judging-started"

	DrawingSubmitted = "drawing-submitted"
	ScoreSubmitted   = "score-submitted"
	VotingComplete   = "voting-complete"
	GameResults      = "game-results"
	RoomDrawings     = "room-drawings"
	ScoringHistory   = "scoring-history"

	NewMessage = "new-message"
	RoomInfo   = "room-info"

	RoomError  = "room-error"
	ScoreError = "score-error"
)
