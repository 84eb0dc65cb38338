package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	EventCreated  = "created"
	EventMove     = "move"
	EventRestart  = "restart"
	EventFinished = "finished"
	EventClosed   = "closed"

	publishTimeout = 5 * time.Second
)

var ErrSessionNotFound = errors.New("session not found")

// Event is reported to the host for everything that happens in a session.
type Event struct {
	Type      string       `json:"type"`
	SessionID string       `json:"session_id"`
	Outcome   *MoveOutcome `json:"outcome,omitempty"`
	At        time.Time    `json:"at"`
}

type eventPublisher interface {
	Publish(ctx context.Context, event *Event) error
}

// Manager keeps the live sessions of a host, keyed by a generated id.
type Manager struct {
	logger   *slog.Logger
	events   eventPublisher
	options  []Option
	sessions *xsync.MapOf[string, *Session]
}

func NewManager(logger *slog.Logger, events eventPublisher, opts ...Option) *Manager {
	return &Manager{
		logger:   logger,
		events:   events,
		options:  opts,
		sessions: xsync.NewMapOf[string, *Session](),
	}
}

func (that *Manager) Create(ctx context.Context, vsComputer bool) (string, Snapshot) {
	id := uuid.NewString()
	log := that.logger.With("sessionID", id)

	opts := append([]Option{}, that.options...)
	opts = append(opts,
		WithLogger(log),
		WithListener(func(change Change) {
			publishCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()

			that.publishChange(publishCtx, id, change)
		}),
	)

	session := NewSession(vsComputer, opts...)
	that.sessions.Store(id, session)
	that.publish(ctx, id, EventCreated, nil)

	log.Info("session created", "vsComputer", vsComputer)

	return id, session.Snapshot()
}

func (that *Manager) Get(id string) (Snapshot, error) {
	session, err := that.session(id)
	if err != nil {
		return Snapshot{}, err
	}

	return session.Snapshot(), nil
}

// Move applies a human move. The move and any computer answer are published by the session
// listener, so subscribers see them in the order they were applied.
func (that *Manager) Move(ctx context.Context, id string, cell int) (MoveOutcome, error) {
	if err := ctx.Err(); err != nil {
		return MoveOutcome{}, err
	}

	session, err := that.session(id)
	if err != nil {
		return MoveOutcome{}, err
	}

	outcome, err := session.ApplyHumanMove(cell)
	if err != nil {
		return MoveOutcome{}, fmt.Errorf("failed to make turn: %w", err)
	}

	return outcome, nil
}

func (that *Manager) Restart(ctx context.Context, id string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	session, err := that.session(id)
	if err != nil {
		return Snapshot{}, err
	}

	session.Restart()

	return session.Snapshot(), nil
}

func (that *Manager) Close(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	session, ok := that.sessions.LoadAndDelete(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	session.Close()

	return nil
}

// CloseAll tears every session down, used on shutdown.
func (that *Manager) CloseAll() {
	that.sessions.Range(func(id string, session *Session) bool {
		session.Close()
		that.sessions.Delete(id)
		return true
	})
}

func (that *Manager) Len() int {
	return that.sessions.Size()
}

func (that *Manager) session(id string) (*Session, error) {
	session, ok := that.sessions.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return session, nil
}

func (that *Manager) publishChange(ctx context.Context, id string, change Change) {
	that.publish(ctx, id, change.Type, change.Outcome)

	if change.Outcome != nil && change.Outcome.Status.IsTerminal() {
		that.publish(ctx, id, EventFinished, change.Outcome)
	}
}

func (that *Manager) publish(ctx context.Context, id, eventType string, outcome *MoveOutcome) {
	event := &Event{
		Type:      eventType,
		SessionID: id,
		Outcome:   outcome,
		At:        time.Now().UTC(),
	}

	if err := that.events.Publish(ctx, event); err != nil {
		that.logger.Error("failed to publish event", "sessionID", id, "type", eventType, "error", err)
	}
}
