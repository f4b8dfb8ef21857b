package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/dto"
	"github.com/ideaarena/ideaarena-go-api/internal/models"
	"github.com/ideaarena/ideaarena-go-api/internal/repository"
)

// ErrProfileNotFound indicates no profile document exists for the uid.
var ErrProfileNotFound = errors.New("profile not found")

// UserService manages user profile documents.
type UserService interface {
	UpsertProfile(ctx context.Context, req dto.UserProfileRequest) (models.UserProfile, error)
	GetProfile(ctx context.Context, uid string) (models.UserProfile, error)
}

type userService struct {
	repo      repository.ProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewUserService builds the profile service.
func NewUserService(repo repository.ProfileRepository, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
		now:       time.Now,
	}
}

// UpsertProfile merges the identity fields into the stored document. Fields
// written by the evaluation pipeline (personal best, last evaluation) are
// left untouched.
func (s *userService) UpsertProfile(ctx context.Context, req dto.UserProfileRequest) (models.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.UserProfile{}, fmt.Errorf("validate profile: %w", err)
	}

	existing, found, err := s.repo.Get(ctx, req.UID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("read profile: %w", err)
	}

	now := s.now().UTC().Format(time.RFC3339)
	fields := map[string]any{
		"uid":        req.UID,
		"name":       req.Name,
		"branch":     req.Branch,
		"rollNumber": req.RollNumber,
		"updatedAt":  now,
	}
	if req.Email != "" {
		fields["email"] = req.Email
	}
	if req.PhotoURL != "" {
		fields["photoURL"] = req.PhotoURL
	}
	if !found || existing.CreatedAt == "" {
		fields["createdAt"] = now
	}

	if err := s.repo.Merge(ctx, req.UID, fields); err != nil {
		s.logger.Error().Err(err).Str("uid", req.UID).Msg("failed to upsert profile")
		return models.UserProfile{}, fmt.Errorf("merge profile: %w", err)
	}

	profile, _, err := s.repo.Get(ctx, req.UID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("read merged profile: %w", err)
	}
	return profile, nil
}

func (s *userService) GetProfile(ctx context.Context, uid string) (models.UserProfile, error) {
	profile, found, err := s.repo.Get(ctx, uid)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("read profile: %w", err)
	}
	if !found {
		return models.UserProfile{}, ErrProfileNotFound
	}
	return profile, nil
}
