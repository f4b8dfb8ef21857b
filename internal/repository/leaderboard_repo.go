package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

const leaderboardKey = "leaderboard"

// LeaderboardRepository stores one scored entry per user.
type LeaderboardRepository interface {
	Upsert(ctx context.Context, entry models.LeaderboardEntry) error
	List(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type redisLeaderboardRepository struct {
	client *redis.Client
}

// NewLeaderboardRepository builds a Redis-backed leaderboard repository.
func NewLeaderboardRepository(client *redis.Client) LeaderboardRepository {
	return &redisLeaderboardRepository{client: client}
}

func (r *redisLeaderboardRepository) Upsert(ctx context.Context, entry models.LeaderboardEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal leaderboard entry: %w", err)
	}

	if err := r.client.HSet(ctx, leaderboardKey, entry.UID, payload).Err(); err != nil {
		return fmt.Errorf("store leaderboard entry: %w", err)
	}
	return nil
}

func (r *redisLeaderboardRepository) List(ctx context.Context) ([]models.LeaderboardEntry, error) {
	raw, err := r.client.HGetAll(ctx, leaderboardKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(raw))
	for uid, payload := range raw {
		var entry models.LeaderboardEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, fmt.Errorf("decode leaderboard entry %s: %w", uid, err)
		}
		if entry.UID == "" {
			entry.UID = uid
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
