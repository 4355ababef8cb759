package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	settings, err := conf.Game.Settings()
	if err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	scoreRepo, closeRepo, err := newScoreRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	bot := service.NewBotService(logger, service.NewRandom(conf.Game.Seed))
	sessions := usecase.NewSessionManager(logger, bot, scoreRepo, settings, conf.Game.AIAutoPlay)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "mode", settings.Mode, "difficulty", settings.Difficulty)

	if err = rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, sessions)); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// newScoreRepository picks Redis when enabled and process memory otherwise.
func newScoreRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.ScoreRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Redis disabled, keeping scores in memory")
		return repository.NewMemoryScoreRepository(), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewScoreRepository(redisStorage, conf.Redis.ScoreTTL), closeStorage, nil
}
