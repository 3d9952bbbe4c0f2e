package apperror

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomNotActive  = errors.New("room is not active")
	ErrNotInRoom      = errors.New("player is not in a room")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrWrongMark      = errors.New("mark does not belong to player")
	ErrInvalidSession = errors.New("invalid session")
	ErrAdvisoryUsed   = errors.New("AI help already used in this game")
	ErrPlayerNotFound = errors.New("player not found")
)
