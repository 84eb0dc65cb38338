package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-commentary/internal/commentary"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/config"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/repository"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/service"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-commentary/transport/rest"
	"golang.org/x/sync/errgroup"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	events, closeEvents, err := initEvents(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeEvents()

	bot := service.NewBotService(service.NewRand(conf.Game.Seed))
	gen := commentary.NewGenerator(service.NewRand(conf.Game.Seed))

	sessions := usecase.NewManager(logger.With("component", "sessions"), events,
		usecase.WithBot(bot),
		usecase.WithCommentary(gen),
		usecase.WithAIDelay(conf.Game.AIDelay),
	)
	defer sessions.CloseAll()

	router := rest.NewRouter(logger.With("component", "http"), sessions)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}

		log.Info("Application context canceled, shutting down")
		return nil
	})

	if err = errg.Wait(); err != nil {
		return fmt.Errorf("app stopped: %w", err)
	}

	return nil
}

// initEvents - connects the Redis publisher, or discards events when Redis is turned off.
func initEvents(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.EventRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Redis is disabled, session events are discarded")
		return repository.NewDiscardRepository(), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	events, err := repository.NewEventRepository(redisStorage, conf.Redis.Channel)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("could not create event repository: %w", err)
	}

	log.Info("Publishing session events to Redis", "addr", redisAddrString, "channel", conf.Redis.Channel)

	return events, closeFn, nil
}
