package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/dto"
	"github.com/ideaarena/ideaarena-go-api/internal/service"
	"github.com/ideaarena/ideaarena-go-api/internal/utils"
)

// UserHandler manages user profile endpoints.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires user profile routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Post("/profile", h.upsert)
	router.Get("/profile/:uid", h.get)
}

func (h *UserHandler) upsert(c *fiber.Ctx) error {
	var payload dto.UserProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.service.UpsertProfile(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid profile: "+err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Str("uid", payload.UID).Msg("failed to upsert profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save profile")
	}

	return utils.SendSuccess(c, "profile saved", profile)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	uid := c.Params("uid")

	profile, err := h.service.GetProfile(c.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "profile not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("uid", uid).Msg("failed to read profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile", profile)
}
