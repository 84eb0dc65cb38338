package commentary

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/rocketscienceinc/tictactoe-commentary/internal/entity"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.MarkX
	o = entity.MarkO
	e = entity.Empty
)

func render(templates []string, actor string, cell int) []string {
	lines := make([]string, 0, len(templates))
	for _, template := range templates {
		lines = append(lines, fmt.Sprintf(template, actor, PositionName(cell)))
	}
	return lines
}

func TestClassify(t *testing.T) {
	t.Run("Center and corner flags", func(t *testing.T) {
		assert.True(t, Classify(entity.Board{}, 4, x).IsCenter)
		assert.False(t, Classify(entity.Board{}, 4, x).IsCorner)

		for _, corner := range []int{0, 2, 6, 8} {
			analysis := Classify(entity.Board{}, corner, o)
			assert.True(t, analysis.IsCorner, "corner %d", corner)
			assert.False(t, analysis.IsCenter)
		}

		analysis := Classify(entity.Board{}, 1, x)
		assert.Equal(t, KindGeneric, analysis.Kind())
	})

	t.Run("Threatens a win", func(t *testing.T) {
		// Given: X holds the top-left corner
		board := entity.Board{x, e, e, e, e, e, e, e, e}

		// When: X plays the top-center
		analysis := Classify(board, 1, x)

		// Then: the top row now has two X and one empty cell
		assert.True(t, analysis.ThreatensWin)
		assert.False(t, analysis.BlocksWin)
		assert.Equal(t, KindThreat, analysis.Kind())
	})

	t.Run("No threat when the line is already blocked", func(t *testing.T) {
		// Given: X on top-left, O on top-right
		board := entity.Board{x, e, o, e, e, e, e, e, e}

		// When: X plays the top-center
		analysis := Classify(board, 1, x)

		// Then: nothing can be completed on that line
		assert.False(t, analysis.ThreatensWin)
		assert.False(t, analysis.BlocksWin)
	})

	t.Run("Blocks a win", func(t *testing.T) {
		// Given: O holds two cells of the top row
		board := entity.Board{o, o, e, x, e, e, e, e, e}

		// When: X plays the top-right
		analysis := Classify(board, 2, x)

		// Then: the move closes the opponent's line
		assert.True(t, analysis.BlocksWin)
		assert.False(t, analysis.ThreatensWin)
		assert.True(t, analysis.IsCorner)
		assert.Equal(t, KindBlock, analysis.Kind())
	})

	t.Run("Same answer with the move already placed", func(t *testing.T) {
		before := entity.Board{o, o, e, e, x, e, e, e, e}
		after := before
		after[2] = x

		assert.Equal(t, Classify(before, 2, x), Classify(after, 2, x))
	})

	t.Run("Threat outranks block", func(t *testing.T) {
		// Given: O has two in the top row, X has the center
		board := entity.Board{o, o, e, e, x, e, e, e, e}

		// When: X blocks at top-right, which also lines up the anti-diagonal
		analysis := Classify(board, 2, x)

		// Then: both flags are set and the threat wins the priority
		assert.True(t, analysis.BlocksWin)
		assert.True(t, analysis.ThreatensWin)
		assert.Equal(t, KindThreat, analysis.Kind())
	})
}

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewPCG(1, 2)))

	tests := []struct {
		name       string
		analysis   MoveAnalysis
		isComputer bool
		templates  []string
	}{
		{
			name:      "threat",
			analysis:  MoveAnalysis{Move: 1, Mark: x, ThreatensWin: true, BlocksWin: true},
			templates: threatTemplates,
		},
		{
			name:       "block",
			analysis:   MoveAnalysis{Move: 2, Mark: o, BlocksWin: true, IsCorner: true},
			isComputer: true,
			templates:  blockTemplates,
		},
		{
			name:      "center",
			analysis:  MoveAnalysis{Move: 4, Mark: x, IsCenter: true},
			templates: centerTemplates,
		},
		{
			name:      "corner",
			analysis:  MoveAnalysis{Move: 6, Mark: o, IsCorner: true},
			templates: cornerTemplates,
		},
		{
			name:      "generic",
			analysis:  MoveAnalysis{Move: 7, Mark: x},
			templates: genericTemplates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := Actor(tt.analysis.Mark, tt.isComputer)
			expected := render(tt.templates, actor, tt.analysis.Move)

			for range 30 {
				line := gen.Generate(tt.analysis, tt.isComputer)

				assert.Contains(t, expected, line)
				assert.Contains(t, line, actor)
				assert.Contains(t, line, PositionName(tt.analysis.Move))
			}
		})
	}
}

func TestGenerator_GenericUsesEveryTemplate(t *testing.T) {
	require.GreaterOrEqual(t, len(genericTemplates), 5)

	gen := NewGenerator(rand.New(rand.NewPCG(3, 4)))
	expected := render(genericTemplates, "Player X", 3)
	seen := map[string]bool{}

	for range 500 {
		seen[gen.Generate(MoveAnalysis{Move: 3, Mark: x}, false)] = true
	}

	for _, line := range expected {
		assert.True(t, seen[line], "template never used: %s", line)
	}
}

// Every move the bot would pick as a winning completion is announced as a threat:
// the cell the bot's win check targets one move later is the same line the commentary flags now.
func TestThreatCommentaryMatchesBotWinCheck(t *testing.T) {
	rnd := rand.New(rand.NewPCG(11, 13))
	gen := NewGenerator(rnd)

	checked := 0
	for game := range 300 {
		var board entity.Board
		mark := x

		for !board.IsFull() {
			free := slices.Collect(board.EmptyCells())
			move := free[rnd.IntN(len(free))]

			analysis := Classify(board, move, mark)

			after := board
			require.NoError(t, after.Place(move, mark))
			_, canWin := service.FindCompletingCell(after, mark)

			// a line through the move that the bot could complete next means a threat
			if canWin && lineThroughMoveCompletable(after, move, mark) {
				require.True(t, analysis.ThreatensWin, "game %d move %d board\n%s", game, move, after)
			}

			if analysis.ThreatensWin {
				checked++
				line := gen.Generate(analysis, game%2 == 0)
				assert.Contains(t, line, "threatens a win")
				assert.Contains(t, render(threatTemplates, Actor(mark, game%2 == 0), move), line)
			}

			board = after
			if _, won := firstWin(board); won {
				break
			}
			mark = mark.Opponent()
		}
	}

	assert.Positive(t, checked)
}

func lineThroughMoveCompletable(board entity.Board, move int, mark entity.Mark) bool {
	for _, line := range entity.WinLines {
		if !lineContains(line, move) {
			continue
		}

		own, empty := 0, 0
		for _, idx := range line {
			switch board[idx] {
			case mark:
				own++
			case entity.Empty:
				empty++
			}
		}

		if own == 2 && empty == 1 {
			return true
		}
	}

	return false
}

func firstWin(board entity.Board) (entity.Mark, bool) {
	for _, line := range entity.WinLines {
		a := board[line[0]]
		if a != e && a == board[line[1]] && a == board[line[2]] {
			return a, true
		}
	}
	return e, false
}

func TestGenerator_EndMessages(t *testing.T) {
	gen := NewGenerator(nil)

	assert.Equal(t, "Player X has won! What a game!", gen.Victory(x, false))
	assert.Equal(t, victoryComputerTemplate, gen.Victory(o, true))
	assert.Equal(t, drawMessage, gen.Draw())

	moveLines := slices.Concat(threatTemplates, blockTemplates, centerTemplates, cornerTemplates, genericTemplates)
	assert.NotContains(t, moveLines, gen.Draw())
	assert.NotEqual(t, gen.Draw(), gen.Victory(x, false))
}

func TestActorAndPositionName(t *testing.T) {
	assert.Equal(t, "Computer", Actor(o, true))
	assert.Equal(t, "Player O", Actor(o, false))
	assert.Equal(t, "center", PositionName(4))
	assert.Equal(t, "bottom-right", PositionName(8))
	assert.Equal(t, "cell 12", PositionName(12))
}
