package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrScoreNotFound = fmt.Errorf("score %w", apperror.ErrNotFound)

type ScoreRepository interface {
	Save(ctx context.Context, key string, score entity.Score) error
	GetByKey(ctx context.Context, key string) (entity.Score, error)
	DeleteByKey(ctx context.Context, key string) error
}

type dbScore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreRepository stores scores in Redis. Every save refreshes the key's ttl,
// so a tally disappears once its session has been idle that long. Zero ttl keeps keys forever.
func NewScoreRepository(client *redis.Client, ttl time.Duration) ScoreRepository {
	return &dbScore{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbScore) Save(ctx context.Context, key string, score entity.Score) error {
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("could not marshal score: %w", err)
	}

	if err = that.client.Set(ctx, scoreKey(key), scoreJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set score: %w", err)
	}

	return nil
}

func (that *dbScore) GetByKey(ctx context.Context, key string) (entity.Score, error) {
	response, err := that.client.Get(ctx, scoreKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.Score{}, ErrScoreNotFound
	}

	if err != nil {
		return entity.Score{}, fmt.Errorf("failed to get score by key: %w", err)
	}

	var score entity.Score
	if err = json.Unmarshal([]byte(response), &score); err != nil {
		return entity.Score{}, fmt.Errorf("failed to unmarshal score: %w", err)
	}

	return score, nil
}

func (that *dbScore) DeleteByKey(ctx context.Context, key string) error {
	deleted, err := that.client.Del(ctx, scoreKey(key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete score by key: %w", err)
	}

	if deleted == 0 {
		return ErrScoreNotFound
	}

	return nil
}

func scoreKey(key string) string {
	return "score:" + key
}
