package service

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-commentary/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/entity"
)

// BotService picks the computer's cell with a fixed priority:
// win, block, center, random corner, random cell.
type BotService struct {
	rand Rand
}

func NewBotService(rnd Rand) *BotService {
	if rnd == nil {
		rnd = NewRand(0)
	}

	return &BotService{
		rand: rnd,
	}
}

func (that *BotService) SelectMove(board entity.Board, mark entity.Mark) (int, error) {
	if !mark.IsPlayer() {
		return -1, fmt.Errorf("bot can't play %w", apperror.ErrInvalidMark)
	}

	availableCells := slices.Collect(board.EmptyCells())
	if len(availableCells) == 0 {
		return -1, apperror.ErrNoMovesAvailable
	}

	// try to win
	if cell, ok := FindCompletingCell(board, mark); ok {
		return cell, nil
	}

	// block the opponent
	if cell, ok := FindCompletingCell(board, mark.Opponent()); ok {
		return cell, nil
	}

	if board[entity.Center] == entity.Empty {
		return entity.Center, nil
	}

	availableCorners := make([]int, 0, len(entity.Corners))
	for _, corner := range entity.Corners {
		if board[corner] == entity.Empty {
			availableCorners = append(availableCorners, corner)
		}
	}

	if len(availableCorners) > 0 {
		return availableCorners[that.rand.IntN(len(availableCorners))], nil
	}

	return availableCells[that.rand.IntN(len(availableCells))], nil
}

// FindCompletingCell - returns the empty cell of the first line holding two marks of mark and one empty cell.
func FindCompletingCell(board entity.Board, mark entity.Mark) (int, bool) {
	for _, line := range entity.WinLines {
		owned, empty := 0, -1

		for _, idx := range line {
			switch board[idx] {
			case mark:
				owned++
			case entity.Empty:
				empty = idx
			}
		}

		if owned == 2 && empty != -1 {
			return empty, true
		}
	}

	return -1, false
}
