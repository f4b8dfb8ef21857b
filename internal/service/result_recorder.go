package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
	"github.com/ideaarena/ideaarena-go-api/internal/repository"
)

type resultRecorder struct {
	ideas       repository.IdeaRepository
	leaderboard repository.LeaderboardRepository
	profiles    repository.ProfileRepository
	round       string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewResultRecorder persists the outcome of a successful evaluation: the idea
// archive, the leaderboard entry and the merged user profile. Every write is
// best-effort: a store failure never fails the job that produced the result.
func NewResultRecorder(ideas repository.IdeaRepository, leaderboard repository.LeaderboardRepository, profiles repository.ProfileRepository, round string, logger zerolog.Logger) ResultRecorder {
	if round == "" {
		round = "1"
	}

	return &resultRecorder{
		ideas:       ideas,
		leaderboard: leaderboard,
		profiles:    profiles,
		round:       round,
		logger:      logger.With().Str("component", "result_recorder").Logger(),
		now:         time.Now,
	}
}

func (r *resultRecorder) Record(ctx context.Context, submission models.IdeaSubmission, result models.Evaluation) {
	if r.ideas != nil {
		if err := r.ideas.Save(ctx, submission.UID, r.round, submission.Idea); err != nil {
			r.logger.Warn().Err(err).Str("uid", submission.UID).Msg("failed to archive idea")
		}
	}

	if r.leaderboard != nil {
		entry := models.LeaderboardEntry{
			UID:    submission.UID,
			Name:   submission.Name,
			Branch: submission.Branch,
			Score:  result.TotalScore,
		}
		if err := r.leaderboard.Upsert(ctx, entry); err != nil {
			r.logger.Warn().Err(err).Str("uid", submission.UID).Msg("failed to update leaderboard")
		}
	}

	if r.profiles != nil {
		r.mergeProfile(ctx, submission, result)
	}
}

func (r *resultRecorder) mergeProfile(ctx context.Context, submission models.IdeaSubmission, result models.Evaluation) {
	personalBest := result.TotalScore
	existing, found, err := r.profiles.Get(ctx, submission.UID)
	if err != nil {
		r.logger.Warn().Err(err).Str("uid", submission.UID).Msg("failed to read prior profile, writing fresh")
	} else if found && existing.PersonalBestScore > personalBest {
		personalBest = existing.PersonalBestScore
	}

	now := r.now().UTC().Format(time.RFC3339)
	fields := map[string]any{
		"uid":               submission.UID,
		"name":              submission.Name,
		"branch":            submission.Branch,
		"rollNumber":        submission.RollNumber,
		"lastEvaluation":    result,
		"hasSubmitted":      true,
		"personalBestScore": personalBest,
		"updatedAt":         now,
	}
	if !found || existing.CreatedAt == "" {
		fields["createdAt"] = now
	}

	if err := r.profiles.Merge(ctx, submission.UID, fields); err != nil {
		r.logger.Warn().Err(err).Str("uid", submission.UID).Msg("failed to merge profile")
	}
}
