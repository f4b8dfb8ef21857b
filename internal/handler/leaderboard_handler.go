package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/service"
	"github.com/ideaarena/ideaarena-go-api/internal/utils"
)

// LeaderboardHandler serves the ranked public leaderboard.
type LeaderboardHandler struct {
	service service.LeaderboardService
	logger  zerolog.Logger
}

// NewLeaderboardHandler constructs a leaderboard handler.
func NewLeaderboardHandler(service service.LeaderboardService, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register wires leaderboard routes.
func (h *LeaderboardHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *LeaderboardHandler) list(c *fiber.Ctx) error {
	entries, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list leaderboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load leaderboard")
	}

	return utils.SendSuccess(c, "leaderboard", entries)
}
