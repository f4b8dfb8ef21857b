package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

const profileKeyPrefix = "profile:"

// ProfileRepository stores per-user profile documents with merge semantics:
// a merge only overwrites the fields it carries.
type ProfileRepository interface {
	Get(ctx context.Context, uid string) (models.UserProfile, bool, error)
	Merge(ctx context.Context, uid string, fields map[string]any) error
}

type redisProfileRepository struct {
	client *redis.Client
}

// NewProfileRepository builds a Redis-backed profile repository.
func NewProfileRepository(client *redis.Client) ProfileRepository {
	return &redisProfileRepository{client: client}
}

func (r *redisProfileRepository) Get(ctx context.Context, uid string) (models.UserProfile, bool, error) {
	payload, err := r.client.Get(ctx, profileKeyPrefix+uid).Result()
	if err == redis.Nil {
		return models.UserProfile{}, false, nil
	}
	if err != nil {
		return models.UserProfile{}, false, fmt.Errorf("read profile %s: %w", uid, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return models.UserProfile{}, false, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	return profile, true, nil
}

func (r *redisProfileRepository) Merge(ctx context.Context, uid string, fields map[string]any) error {
	key := profileKeyPrefix + uid

	document := map[string]any{}
	payload, err := r.client.Get(ctx, key).Result()
	switch {
	case err == redis.Nil:
		// First write for this user.
	case err != nil:
		return fmt.Errorf("read profile %s: %w", uid, err)
	default:
		if err := json.Unmarshal([]byte(payload), &document); err != nil {
			return fmt.Errorf("decode profile %s: %w", uid, err)
		}
	}

	for field, value := range fields {
		document[field] = value
	}

	merged, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", uid, err)
	}

	if err := r.client.Set(ctx, key, merged, 0).Err(); err != nil {
		return fmt.Errorf("store profile %s: %w", uid, err)
	}
	return nil
}
