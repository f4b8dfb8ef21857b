package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/dto"
	"github.com/ideaarena/ideaarena-go-api/internal/service"
	"github.com/ideaarena/ideaarena-go-api/internal/utils"
)

// ChatHandler exposes the coding assistant endpoint.
type ChatHandler struct {
	service   service.ChatService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewChatHandler constructs a chat handler.
func NewChatHandler(service service.ChatService, validate *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register wires chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("", h.reply)
}

func (h *ChatHandler) reply(c *fiber.Ctx) error {
	var payload dto.ChatRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid message: "+err.Error())
	}

	reply, err := h.service.Reply(c.Context(), payload.Message)
	if err != nil {
		if errors.Is(err, service.ErrChatUnavailable) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "assistant is unavailable, try again shortly")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate chat reply")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate reply")
	}

	return utils.SendSuccess(c, "assistant reply", dto.ChatResponse{Reply: reply})
}
