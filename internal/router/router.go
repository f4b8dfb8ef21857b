package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ideaarena/ideaarena-go-api/internal/config"
	"github.com/ideaarena/ideaarena-go-api/internal/handler"
	"github.com/ideaarena/ideaarena-go-api/internal/middleware"
	"github.com/ideaarena/ideaarena-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	IdeaHandler        *handler.IdeaHandler
	ChatHandler        *handler.ChatHandler
	LeaderboardHandler *handler.LeaderboardHandler
	UserHandler        *handler.UserHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.IdeaHandler != nil {
		ideas := api.Group("/ideas", middleware.RateLimit("ideas", 20, time.Minute))
		deps.IdeaHandler.Register(ideas)
	}

	if deps.ChatHandler != nil {
		chat := api.Group("/chat", middleware.RateLimit("chat", 30, time.Minute))
		deps.ChatHandler.Register(chat)
	}

	if deps.LeaderboardHandler != nil {
		deps.LeaderboardHandler.Register(api.Group("/leaderboard"))
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users"))
	}
}
