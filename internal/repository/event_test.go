package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-commentary/internal/entity"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-commentary/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Publish(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: a subscriber listening on the events channel
	pubsub := st.Storage.Subscribe(ctx, "events")
	t.Cleanup(func() { _ = pubsub.Close() })
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	eventRepo, err := NewEventRepository(st.Storage, "events")
	require.NoError(t, err)

	event := &usecase.Event{
		Type:      usecase.EventMove,
		SessionID: "123",
		Outcome: &usecase.MoveOutcome{
			Cell:       4,
			Mark:       entity.MarkX,
			Actor:      "Player X",
			Status:     entity.InProgress(),
			Commentary: "Player X claims the center",
		},
		At: time.Now().UTC(),
	}

	// When: the event is published
	err = eventRepo.Publish(ctx, event)

	// Then: the subscriber receives it as JSON
	require.NoError(t, err)

	msg, err := pubsub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var received map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &received))
	assert.Equal(t, usecase.EventMove, received["type"])
	assert.Equal(t, "123", received["session_id"])

	outcome, ok := received["outcome"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "X", outcome["mark"])
	assert.InDelta(t, 4, outcome["cell"], 0)
}

func TestNewEventRepository_EmptyChannel(t *testing.T) {
	// When: the repository is created without a channel
	eventRepo, err := NewEventRepository(nil, "")

	// Then: an ErrEmptyChannel error should be returned
	require.ErrorIs(t, err, ErrEmptyChannel)
	assert.Nil(t, eventRepo)
}

func TestDiscardRepository(t *testing.T) {
	assert.NoError(t, NewDiscardRepository().Publish(context.Background(), &usecase.Event{Type: usecase.EventRestart}))
}
