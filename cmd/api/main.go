package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/config"
	"github.com/ideaarena/ideaarena-go-api/internal/database"
	"github.com/ideaarena/ideaarena-go-api/internal/handler"
	"github.com/ideaarena/ideaarena-go-api/internal/middleware"
	"github.com/ideaarena/ideaarena-go-api/internal/repository"
	"github.com/ideaarena/ideaarena-go-api/internal/retrieval"
	"github.com/ideaarena/ideaarena-go-api/internal/router"
	"github.com/ideaarena/ideaarena-go-api/internal/service"
	"github.com/ideaarena/ideaarena-go-api/pkg/genai"
	"github.com/ideaarena/ideaarena-go-api/pkg/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	generator := genai.NewClient(genai.Config{
		APIKeys:   cfg.GeminiAPIKeys,
		Model:     cfg.GeminiModel,
		MaxTokens: cfg.GeminiMaxTokens,
		Logger:    logger,
	})
	if generator.KeyCount() == 0 {
		logger.Warn().Msg("no model credentials configured, evaluations will use the synthetic tier")
	}

	var contexts service.ContextBuilder
	if cfg.SearchConfigured() {
		searchClient, err := search.NewGoogleClient(search.GoogleConfig{
			APIKey:   cfg.SearchAPIKey,
			EngineID: cfg.SearchEngineID,
			Timeout:  cfg.SearchTimeout,
			Logger:   logger,
		})
		if err != nil {
			log.Fatalf("failed to create search client: %v", err)
		}
		contexts = retrieval.NewEngine(searchClient, logger)
	} else {
		logger.Warn().Msg("web search not configured, agentic tier runs without grounding")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	ideaRepo := repository.NewIdeaRepository(redisClient)
	leaderboardRepo := repository.NewLeaderboardRepository(redisClient)
	profileRepo := repository.NewProfileRepository(redisClient)

	evaluationService := service.NewEvaluationService(generator, contexts, logger)
	recorder := service.NewResultRecorder(ideaRepo, leaderboardRepo, profileRepo, cfg.EvaluationRound, logger)
	queue := service.NewEvaluationQueue(evaluationService, recorder, cfg.QueueCapacity, logger)
	queue.Start()

	leaderboardService := service.NewLeaderboardService(leaderboardRepo, logger)
	userService := service.NewUserService(profileRepo, validate, logger)
	chatService := service.NewChatService(generator, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		IdeaHandler:        handler.NewIdeaHandler(queue, validate, logger),
		ChatHandler:        handler.NewChatHandler(chatService, validate, logger),
		LeaderboardHandler: handler.NewLeaderboardHandler(leaderboardService, logger),
		UserHandler:        handler.NewUserHandler(userService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, queue, cfg, logger)
}

func waitForShutdown(app *fiber.App, queue *service.EvaluationQueue, cfg config.Config, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if err := queue.Stop(ctx); err != nil {
		logger.Warn().Err(err).Msg("evaluation worker did not finish in time")
	}

	logger.Info().Msg("server stopped")
}
