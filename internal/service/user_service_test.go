package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/ideaarena/ideaarena-go-api/internal/dto"
	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

func profileRequest() dto.UserProfileRequest {
	return dto.UserProfileRequest{
		UID:        "user-1",
		Name:       "Asha",
		Branch:     "CSE",
		RollNumber: "42",
	}
}

func TestUpsertProfileCreates(t *testing.T) {
	repo := &memoryProfileRepo{}
	svc := NewUserService(repo, validator.New(), testLogger())

	profile, err := svc.UpsertProfile(context.Background(), profileRequest())
	require.NoError(t, err)
	require.Equal(t, "user-1", profile.UID)
	require.Equal(t, "Asha", profile.Name)
	require.NotEmpty(t, profile.CreatedAt)
	require.NotEmpty(t, profile.UpdatedAt)
}

func TestUpsertProfilePreservesEvaluationFields(t *testing.T) {
	repo := &memoryProfileRepo{profiles: map[string]models.UserProfile{
		"user-1": {
			UID:               "user-1",
			Name:              "Old Name",
			CreatedAt:         "2026-01-01T00:00:00Z",
			HasSubmitted:      true,
			PersonalBestScore: 84,
		},
	}}
	svc := NewUserService(repo, validator.New(), testLogger())

	profile, err := svc.UpsertProfile(context.Background(), profileRequest())
	require.NoError(t, err)
	require.Equal(t, "Asha", profile.Name)
	require.Equal(t, "2026-01-01T00:00:00Z", profile.CreatedAt)
	require.True(t, profile.HasSubmitted)
	require.Equal(t, 84, profile.PersonalBestScore)
}

func TestUpsertProfileRejectsInvalidRequest(t *testing.T) {
	svc := NewUserService(&memoryProfileRepo{}, validator.New(), testLogger())

	req := profileRequest()
	req.UID = ""
	_, err := svc.UpsertProfile(context.Background(), req)
	require.Error(t, err)

	req = profileRequest()
	req.Email = "not-an-email"
	_, err = svc.UpsertProfile(context.Background(), req)
	require.Error(t, err)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewUserService(&memoryProfileRepo{}, validator.New(), testLogger())

	_, err := svc.GetProfile(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetProfileFound(t *testing.T) {
	repo := &memoryProfileRepo{profiles: map[string]models.UserProfile{
		"user-1": {UID: "user-1", Name: "Asha"},
	}}
	svc := NewUserService(repo, validator.New(), testLogger())

	profile, err := svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "Asha", profile.Name)
}
