package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const ideaKeyPrefix = "ideas:"

// IdeaRepository archives the raw idea text per user and round.
type IdeaRepository interface {
	Save(ctx context.Context, uid, round, idea string) error
}

type redisIdeaRepository struct {
	client *redis.Client
}

// NewIdeaRepository builds a Redis-backed idea archive.
func NewIdeaRepository(client *redis.Client) IdeaRepository {
	return &redisIdeaRepository{client: client}
}

func (r *redisIdeaRepository) Save(ctx context.Context, uid, round, idea string) error {
	if err := r.client.HSet(ctx, ideaKeyPrefix+uid, round, idea).Err(); err != nil {
		return fmt.Errorf("archive idea for %s: %w", uid, err)
	}
	return nil
}
