// Package commentary classifies moves and turns them into a line of flavor text.
package commentary

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-commentary/internal/entity"
)

const computerLabel = "Computer"

// Rand is the source used to pick a template.
type Rand interface {
	IntN(n int) int
}

// MoveAnalysis describes a single move. It is derived for every move and never stored.
type MoveAnalysis struct {
	Move         int
	Mark         entity.Mark
	IsCenter     bool
	IsCorner     bool
	ThreatensWin bool
	BlocksWin    bool
}

// Kind is the template family a move falls into.
type Kind uint8

const (
	KindGeneric Kind = iota
	KindCorner
	KindCenter
	KindBlock
	KindThreat
)

// Kind applies the priority threat > block > center > corner > generic.
func (that MoveAnalysis) Kind() Kind {
	switch {
	case that.ThreatensWin:
		return KindThreat
	case that.BlocksWin:
		return KindBlock
	case that.IsCenter:
		return KindCenter
	case that.IsCorner:
		return KindCorner
	default:
		return KindGeneric
	}
}

// Classify inspects board as it was before mark was placed at move.
// The content of the move cell itself is ignored, so a board with the move already applied gives the same answer.
func Classify(board entity.Board, move int, mark entity.Mark) MoveAnalysis {
	analysis := MoveAnalysis{
		Move:     move,
		Mark:     mark,
		IsCenter: move == entity.Center,
		IsCorner: entity.IsCorner(move),
	}

	opponent := mark.Opponent()

	for _, line := range entity.WinLines {
		if !lineContains(line, move) {
			continue
		}

		own, theirs, empty := 0, 0, 0
		for _, idx := range line {
			if idx == move {
				continue
			}

			switch board[idx] {
			case mark:
				own++
			case opponent:
				theirs++
			case entity.Empty:
				empty++
			}
		}

		if own == 1 && empty == 1 {
			analysis.ThreatensWin = true
		}

		if theirs == 2 {
			analysis.BlocksWin = true
		}
	}

	return analysis
}

func lineContains(line [3]int, cell int) bool {
	return line[0] == cell || line[1] == cell || line[2] == cell
}

// Actor - "Computer" for the bot, "Player X" otherwise.
func Actor(mark entity.Mark, isComputer bool) string {
	if isComputer {
		return computerLabel
	}

	return "Player " + mark.String()
}

// PositionName returns the human readable name of a cell.
func PositionName(cell int) string {
	if cell < 0 || cell >= len(positionNames) {
		return fmt.Sprintf("cell %d", cell)
	}

	return positionNames[cell]
}

// Generator renders commentary lines.
type Generator struct {
	mu   sync.Mutex
	rand Rand
}

func NewGenerator(rnd Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	return &Generator{rand: rnd}
}

func (that *Generator) Generate(analysis MoveAnalysis, isComputer bool) string {
	template := that.pick(templatesFor(analysis.Kind()))

	return fmt.Sprintf(template, Actor(analysis.Mark, isComputer), PositionName(analysis.Move))
}

func (that *Generator) Victory(mark entity.Mark, isComputer bool) string {
	if isComputer {
		return victoryComputerTemplate
	}

	return fmt.Sprintf(victoryPlayerTemplate, mark)
}

func (that *Generator) Draw() string {
	return drawMessage
}

func (that *Generator) pick(templates []string) string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return templates[that.rand.IntN(len(templates))]
}

func templatesFor(kind Kind) []string {
	switch kind {
	case KindThreat:
		return threatTemplates
	case KindBlock:
		return blockTemplates
	case KindCenter:
		return centerTemplates
	case KindCorner:
		return cornerTemplates
	default:
		return genericTemplates
	}
}
