// Package tictactoe decides when a game is over.
package tictactoe

import "github.com/rocketscienceinc/tictactoe-commentary/internal/entity"

// Evaluate - returns the status of the board: the first completed line in
// entity.WinLines order wins, a full board without a line is a draw.
func Evaluate(board entity.Board) entity.GameStatus {
	if line, ok := WinningLine(board); ok {
		return entity.WonBy(board[line[0]])
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return entity.InProgress()
	}

	return entity.Draw()
}

// WinningLine - returns the first completed line.
func WinningLine(board entity.Board) ([3]int, bool) {
	for _, line := range entity.WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.Empty && a == b && b == c {
			return line, true
		}
	}

	return [3]int{}, false
}
