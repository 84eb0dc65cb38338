package entity

import "encoding/json"

// State is the phase of a game. Won and Draw are terminal.
type State uint8

const (
	StateInProgress State = iota
	StateWon
	StateDraw
)

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
	statusUnknown = "unknown"
)

// GameStatus - InProgress, WonBy(mark) or Draw.
type GameStatus struct {
	State  State
	Winner Mark
}

func InProgress() GameStatus {
	return GameStatus{State: StateInProgress}
}

func WonBy(mark Mark) GameStatus {
	return GameStatus{State: StateWon, Winner: mark}
}

func Draw() GameStatus {
	return GameStatus{State: StateDraw}
}

func (that GameStatus) IsOngoing() bool {
	return that.State == StateInProgress
}

func (that GameStatus) IsTerminal() bool {
	return that.State == StateWon || that.State == StateDraw
}

func (that GameStatus) IsWon() bool {
	return that.State == StateWon
}

func (that GameStatus) IsDraw() bool {
	return that.State == StateDraw
}

func (that GameStatus) String() string {
	switch that.State {
	case StateInProgress:
		return StatusOngoing
	case StateWon:
		return StatusWon
	case StateDraw:
		return StatusDraw
	default:
		return statusUnknown
	}
}

func (that GameStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status string `json:"status"`
		Winner Mark   `json:"winner,omitempty"`
	}{
		Status: that.String(),
		Winner: that.Winner,
	})
}
