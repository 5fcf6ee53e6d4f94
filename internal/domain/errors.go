package domain

import "errors"

var (
	ErrRoomNotFound       = errors.New("room does not exist")
	ErrRoomCodeTaken      = errors.New("room code already exists")
	ErrCapacityExceeded   = errors.New("room capacity exceeded")
	ErrPlayerNotFound     = errors.New("player not found in room")
	ErrNotHost            = errors.New("only the host can perform this action")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrWrongPhase         = errors.New("action is not allowed in the current phase")

	ErrSelfScore       = errors.New("you cannot score your own drawing")
	ErrScoreOutOfRange = errors.New("score must be between 1 and 10")
	ErrDuplicateScore  = errors.New("you have already scored this drawing")

	ErrEmptyMessage   = errors.New("message is empty")
	ErrProfaneMessage = errors.New("message contains inappropriate language")
	ErrInvalidInput   = errors.New("invalid input")
)
