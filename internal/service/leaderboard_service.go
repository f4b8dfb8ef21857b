package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
	"github.com/ideaarena/ideaarena-go-api/internal/repository"
)

// LeaderboardService exposes the ranked public leaderboard.
type LeaderboardService interface {
	List(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo   repository.LeaderboardRepository
	logger zerolog.Logger
}

// NewLeaderboardService builds the leaderboard read service.
func NewLeaderboardService(repo repository.LeaderboardRepository, logger zerolog.Logger) LeaderboardService {
	return &leaderboardService{
		repo:   repo,
		logger: logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

// List returns every entry sorted by score descending; ties break on name so
// the ordering is stable across refreshes.
func (s *leaderboardService) List(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list leaderboard")
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}
