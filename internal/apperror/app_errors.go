package apperror

import "errors"

var (
	ErrOutOfRange        = errors.New("row or column index out of range")
	ErrInvalidMark       = errors.New("invalid mark, must be X or O")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrProgramming       = errors.New("programming error")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidMode       = errors.New("invalid game mode")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrNotFound          = errors.New("not found")
)
