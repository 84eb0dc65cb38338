package usecase

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-commentary/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/commentary"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/entity"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/service"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/tictactoe"
)

const (
	DefaultAIDelay = 500 * time.Millisecond

	humanMark    = entity.MarkX
	computerMark = entity.MarkO
)

// MoveOutcome is what a host gets back after every applied move.
type MoveOutcome struct {
	Cell         int               `json:"cell"`
	Mark         entity.Mark       `json:"mark"`
	Actor        string            `json:"actor"`
	Status       entity.GameStatus `json:"status"`
	Commentary   string            `json:"commentary"`
	Announcement string            `json:"announcement,omitempty"`
	Board        entity.Board      `json:"board"`
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Board      entity.Board      `json:"board"`
	Turn       entity.Mark       `json:"turn"`
	Status     entity.GameStatus `json:"status"`
	VsComputer bool              `json:"vs_computer"`
	AIPending  bool              `json:"ai_pending"`
	StatusText string            `json:"status_text"`
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithBot(bot *service.BotService) Option {
	return func(s *Session) { s.bot = bot }
}

func WithCommentary(gen *commentary.Generator) Option {
	return func(s *Session) { s.commentary = gen }
}

func WithAIDelay(delay time.Duration) Option {
	return func(s *Session) { s.aiDelay = delay }
}

func WithScheduler(scheduler Scheduler) Option {
	return func(s *Session) { s.scheduler = scheduler }
}

// Change is one applied state change: a move (human or computer), a restart or the close.
type Change struct {
	Type    string
	Outcome *MoveOutcome
}

// WithListener registers a callback for every state change. Changes are delivered one at a time,
// in the order they were applied, without the state lock held. The listener must not call back
// into the session.
func WithListener(listener func(Change)) Option {
	return func(s *Session) { s.listener = listener }
}

// Session owns the board, the turn and the status of one game.
// All state changes go through its methods and are serialized by mu,
// including the delayed computer move which fires on a timer goroutine.
type Session struct {
	logger     *slog.Logger
	bot        *service.BotService
	commentary *commentary.Generator
	scheduler  Scheduler
	listener   func(Change)
	aiDelay    time.Duration
	vsComputer bool

	// emitMu is taken before mu and held until the listener returns.
	emitMu sync.Mutex

	mu         sync.Mutex
	board      entity.Board
	turn       entity.Mark
	status     entity.GameStatus
	closed     bool
	generation uint64
	stopAI     func() bool
}

func NewSession(vsComputer bool, opts ...Option) *Session {
	session := &Session{
		vsComputer: vsComputer,
		aiDelay:    DefaultAIDelay,
		scheduler:  timerScheduler{},
		turn:       entity.MarkX,
		status:     entity.InProgress(),
	}

	for _, opt := range opts {
		opt(session)
	}

	if session.logger == nil {
		session.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if session.bot == nil {
		session.bot = service.NewBotService(nil)
	}
	if session.commentary == nil {
		session.commentary = commentary.NewGenerator(nil)
	}

	return session
}

// ApplyHumanMove places the current player's mark at index.
// Every rejection wraps apperror.ErrInvalidMove and leaves the session untouched.
func (that *Session) ApplyHumanMove(index int) (MoveOutcome, error) {
	that.emitMu.Lock()
	defer that.emitMu.Unlock()

	outcome, err := that.humanMove(index)
	if err != nil {
		return MoveOutcome{}, err
	}

	that.notify(Change{Type: EventMove, Outcome: &outcome})

	return outcome, nil
}

func (that *Session) humanMove(index int) (MoveOutcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.vsComputer && !that.closed && that.status.IsOngoing() && that.turn != humanMark {
		return MoveOutcome{}, errors.Join(apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	outcome, err := that.applyMove(index, false)
	if err != nil {
		return MoveOutcome{}, err
	}

	that.maybeInvokeAI()

	return outcome, nil
}

// Restart - drops any pending computer move and starts a new game with X to move.
func (that *Session) Restart() {
	that.emitMu.Lock()
	defer that.emitMu.Unlock()

	that.reset()
	that.notify(Change{Type: EventRestart})
}

func (that *Session) reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelAI()

	that.board.Reset()
	that.turn = entity.MarkX
	that.status = entity.InProgress()

	that.logger.Debug("session restarted")
}

// Close tears the session down. A pending computer move never fires after Close returns.
func (that *Session) Close() {
	that.emitMu.Lock()
	defer that.emitMu.Unlock()

	if that.shutdown() {
		that.notify(Change{Type: EventClosed})
	}
}

// shutdown reports whether this call closed the session.
func (that *Session) shutdown() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelAI()
	if that.closed {
		return false
	}

	that.closed = true
	return true
}

func (that *Session) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return Snapshot{
		Board:      that.board,
		Turn:       that.turn,
		Status:     that.status,
		VsComputer: that.vsComputer,
		AIPending:  that.stopAI != nil,
		StatusText: that.statusText(),
	}
}

func (that *Session) StatusText() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.statusText()
}

func (that *Session) statusText() string {
	switch {
	case that.status.IsWon():
		return fmt.Sprintf("Player %s has won!", that.status.Winner)
	case that.status.IsDraw():
		return "Game ended in a draw!"
	default:
		return fmt.Sprintf("Player %s's turn", that.turn)
	}
}

// applyMove - must be called with mu held.
func (that *Session) applyMove(index int, isComputer bool) (MoveOutcome, error) {
	if that.closed {
		return MoveOutcome{}, errors.Join(apperror.ErrInvalidMove, apperror.ErrSessionClosed)
	}

	if that.status.IsTerminal() {
		return MoveOutcome{}, errors.Join(apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	mark := that.turn
	analysis := commentary.Classify(that.board, index, mark)

	if err := that.board.Place(index, mark); err != nil {
		return MoveOutcome{}, fmt.Errorf("failed to place %s: %w", mark, err)
	}

	that.status = tictactoe.Evaluate(that.board)
	if that.status.IsOngoing() {
		that.turn = mark.Opponent()
	}

	outcome := MoveOutcome{
		Cell:       index,
		Mark:       mark,
		Actor:      commentary.Actor(mark, isComputer),
		Status:     that.status,
		Commentary: that.commentary.Generate(analysis, isComputer),
		Board:      that.board,
	}

	switch {
	case that.status.IsWon():
		outcome.Announcement = that.commentary.Victory(mark, isComputer)
	case that.status.IsDraw():
		outcome.Announcement = that.commentary.Draw()
	}

	that.logger.Debug("move applied",
		"cell", index, "mark", mark.String(), "computer", isComputer, "status", that.status.String())

	return outcome, nil
}

// maybeInvokeAI - must be called with mu held.
func (that *Session) maybeInvokeAI() {
	if !that.vsComputer || that.closed || !that.status.IsOngoing() || that.turn != computerMark {
		return
	}

	if that.stopAI != nil {
		return
	}

	generation := that.generation
	that.stopAI = that.scheduler.AfterFunc(that.aiDelay, func() {
		that.runAI(generation)
	})
}

func (that *Session) runAI(generation uint64) {
	log := that.logger.With("method", "runAI")

	that.emitMu.Lock()
	defer that.emitMu.Unlock()

	outcome, ok := that.computerMove(generation, log)
	if ok {
		that.notify(Change{Type: EventMove, Outcome: &outcome})
	}
}

// notify - must be called with emitMu held and mu released.
func (that *Session) notify(change Change) {
	if that.listener != nil {
		that.listener(change)
	}
}

func (that *Session) computerMove(generation uint64, log *slog.Logger) (MoveOutcome, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	// restarted or closed while the timer was running
	if generation != that.generation {
		log.Debug("stale computer move dropped")
		return MoveOutcome{}, false
	}

	that.stopAI = nil

	if that.closed || !that.status.IsOngoing() || that.turn != computerMark {
		return MoveOutcome{}, false
	}

	cell, err := that.bot.SelectMove(that.board, computerMark)
	if err != nil {
		log.Error("bot failed to select move", "error", err)
		return MoveOutcome{}, false
	}

	outcome, err := that.applyMove(cell, true)
	if err != nil {
		log.Error("bot failed to make turn", "error", err)
		return MoveOutcome{}, false
	}

	return outcome, true
}

// cancelAI - must be called with mu held.
func (that *Session) cancelAI() {
	that.generation++

	if that.stopAI != nil {
		that.stopAI()
		that.stopAI = nil
	}
}
