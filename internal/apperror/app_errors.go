package apperror

import "errors"

var (
	ErrInvalidAction   = errors.New("invalid action")
	ErrInvalidBoard    = errors.New("invalid board")
	ErrInvalidMark     = errors.New("invalid mark")
	ErrUnknownGameType = errors.New("unknown game type")
	ErrGameFinished    = errors.New("game is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
)
