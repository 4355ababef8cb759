package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type scoreRepo interface {
	Save(ctx context.Context, key string, score entity.Score) error
	GetByKey(ctx context.Context, key string) (entity.Score, error)
	DeleteByKey(ctx context.Context, key string) error
}

// Scoreboard counts wins and draws across the games of one session.
// The in-memory tally is authoritative; every change is written through to the repository.
type Scoreboard struct {
	logger *slog.Logger
	repo   scoreRepo
	key    string

	score entity.Score
}

func NewScoreboard(logger *slog.Logger, repo scoreRepo, key string) *Scoreboard {
	return &Scoreboard{
		logger: logger.With("component", "scoreboard", "key", key),
		repo:   repo,
		key:    key,
	}
}

// Load restores a previously saved tally. A missing one leaves the score at zero.
func (that *Scoreboard) Load(ctx context.Context) error {
	score, err := that.repo.GetByKey(ctx, that.key)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to load score: %w", err)
	}

	that.score = score

	return nil
}

func (that *Scoreboard) Update(ctx context.Context, outcome entity.Outcome) entity.Score {
	that.score = that.score.Add(outcome)
	that.save(ctx)

	return that.score
}

func (that *Scoreboard) Reset(ctx context.Context) {
	that.score = entity.Score{}

	if err := that.Forget(ctx); err != nil {
		that.logger.Error("failed to reset score", "method", "Reset", "error", err)
	}
}

func (that *Scoreboard) Snapshot() entity.Score {
	return that.score
}

// Forget removes the stored tally without touching the in-memory one.
func (that *Scoreboard) Forget(ctx context.Context) error {
	if err := that.repo.DeleteByKey(ctx, that.key); err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("failed to delete score: %w", err)
	}

	return nil
}

func (that *Scoreboard) save(ctx context.Context) {
	if err := that.repo.Save(ctx, that.key, that.score); err != nil {
		that.logger.Error("failed to save score", "method", "save", "error", err)
	}
}
