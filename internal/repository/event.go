package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/usecase"
)

var ErrEmptyChannel = errors.New("redis channel name is empty")

type EventRepository interface {
	Publish(ctx context.Context, event *usecase.Event) error
}

type redisEvents struct {
	client  *redis.Client
	channel string
}

func NewEventRepository(client *redis.Client, channel string) (EventRepository, error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}

	return &redisEvents{
		client:  client,
		channel: channel,
	}, nil
}

func (that *redisEvents) Publish(ctx context.Context, event *usecase.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

type discardEvents struct{}

// NewDiscardRepository is used when Redis is turned off.
func NewDiscardRepository() EventRepository {
	return discardEvents{}
}

func (discardEvents) Publish(context.Context, *usecase.Event) error {
	return nil
}
