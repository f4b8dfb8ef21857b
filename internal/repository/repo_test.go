package repository

import (
	"context"
	"sort"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestLeaderboardUpsertAndList(t *testing.T) {
	repo := NewLeaderboardRepository(testRedis(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.LeaderboardEntry{UID: "u1", Name: "Alice", Branch: "CSE", Score: 72}))
	require.NoError(t, repo.Upsert(ctx, models.LeaderboardEntry{UID: "u2", Name: "Bob", Branch: "ECE", Score: 64}))
	// Re-submitting overwrites the previous entry for the same user.
	require.NoError(t, repo.Upsert(ctx, models.LeaderboardEntry{UID: "u1", Name: "Alice", Branch: "CSE", Score: 81}))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	sort.Slice(entries, func(i, j int) bool { return entries[i].UID < entries[j].UID })
	require.Equal(t, 81, entries[0].Score)
	require.Equal(t, "Bob", entries[1].Name)
}

func TestProfileMergePreservesUnrelatedFields(t *testing.T) {
	repo := NewProfileRepository(testRedis(t))
	ctx := context.Background()

	require.NoError(t, repo.Merge(ctx, "u1", map[string]any{
		"uid":               "u1",
		"name":              "Alice",
		"branch":            "CSE",
		"rollNumber":        "1RV23CS001",
		"createdAt":         "2026-08-30T10:00:00Z",
		"personalBestScore": 70,
	}))

	require.NoError(t, repo.Merge(ctx, "u1", map[string]any{
		"hasSubmitted": true,
		"updatedAt":    "2026-08-30T11:00:00Z",
	}))

	profile, found, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Alice", profile.Name)
	require.Equal(t, "2026-08-30T10:00:00Z", profile.CreatedAt)
	require.Equal(t, 70, profile.PersonalBestScore)
	require.True(t, profile.HasSubmitted)
}

func TestProfileGetMissing(t *testing.T) {
	repo := NewProfileRepository(testRedis(t))

	_, found, err := repo.Get(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, found)
}

func TestIdeaSave(t *testing.T) {
	client := testRedis(t)
	repo := NewIdeaRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "u1", "1", "an idea about solar powered irrigation"))

	stored, err := client.HGet(ctx, "ideas:u1", "1").Result()
	require.NoError(t, err)
	require.Equal(t, "an idea about solar powered irrigation", stored)
}
