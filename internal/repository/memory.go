package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type memoryScore struct {
	mu     sync.Mutex
	scores map[string]entity.Score
}

// NewMemoryScoreRepository keeps scores in process memory. Used when Redis is disabled.
func NewMemoryScoreRepository() ScoreRepository {
	return &memoryScore{
		scores: make(map[string]entity.Score),
	}
}

func (that *memoryScore) Save(_ context.Context, key string, score entity.Score) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.scores[key] = score

	return nil
}

func (that *memoryScore) GetByKey(_ context.Context, key string) (entity.Score, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	score, ok := that.scores[key]
	if !ok {
		return entity.Score{}, ErrScoreNotFound
	}

	return score, nil
}

func (that *memoryScore) DeleteByKey(_ context.Context, key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.scores[key]; !ok {
		return ErrScoreNotFound
	}

	delete(that.scores, key)

	return nil
}
