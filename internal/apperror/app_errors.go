package apperror

import "errors"

var (
	ErrInvalidMove      = errors.New("invalid move")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidMark      = errors.New("invalid mark")
	ErrNoMovesAvailable = errors.New("no available moves")
	ErrSessionClosed    = errors.New("session is closed")
)
