package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/dto"
	"github.com/ideaarena/ideaarena-go-api/internal/models"
	"github.com/ideaarena/ideaarena-go-api/internal/service"
	"github.com/ideaarena/ideaarena-go-api/internal/utils"
)

// IdeaQueue is the slice of the evaluation queue the HTTP layer needs.
type IdeaQueue interface {
	Enqueue(submission models.IdeaSubmission) (string, error)
	Status(jobID string) (dto.JobStatusResponse, bool)
}

// IdeaHandler handles idea submission and job polling.
type IdeaHandler struct {
	queue     IdeaQueue
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewIdeaHandler constructs an idea handler.
func NewIdeaHandler(queue IdeaQueue, validate *validator.Validate, logger zerolog.Logger) *IdeaHandler {
	return &IdeaHandler{
		queue:     queue,
		validator: validate,
		logger:    logger.With().Str("component", "idea_handler").Logger(),
	}
}

// Register wires idea routes.
func (h *IdeaHandler) Register(router fiber.Router) {
	router.Post("/submit", h.submit)
	router.Get("/status/:id", h.status)
}

func (h *IdeaHandler) submit(c *fiber.Ctx) error {
	var payload dto.IdeaSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission: "+err.Error())
	}

	jobID, err := h.queue.Enqueue(payload.ToModel())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQueueFull):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "evaluation queue is full, try again shortly")
		case errors.Is(err, service.ErrQueueStopped):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "service is shutting down")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("uid", payload.UID).Msg("failed to enqueue idea")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to enqueue idea")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "idea accepted for evaluation", dto.EnqueueResponse{JobID: jobID})
}

func (h *IdeaHandler) status(c *fiber.Ctx) error {
	jobID := c.Params("id")

	snapshot, found := h.queue.Status(jobID)
	if !found {
		return utils.SendError(c, fiber.StatusNotFound, "job not found")
	}

	return utils.SendSuccess(c, "job status", snapshot)
}
