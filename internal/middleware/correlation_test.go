package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/ideaarena/ideaarena-go-api/internal/middleware"
)

func TestCorrelationIDGeneratedWhenAbsent(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = middleware.GetCorrelationID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	require.Equal(t, seen, resp.Header.Get("X-Correlation-ID"))
}

func TestCorrelationIDPropagatesIncomingHeader(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	var fromCtx string
	app.Get("/", func(c *fiber.Ctx) error {
		fromCtx = middleware.CorrelationIDFromContext(c.UserContext())
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "corr-42")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "corr-42", resp.Header.Get("X-Correlation-ID"))
	require.Equal(t, "corr-42", fromCtx)
}

func TestCorrelationIDFromContextMissing(t *testing.T) {
	require.Empty(t, middleware.CorrelationIDFromContext(context.Background()))
	require.Empty(t, middleware.CorrelationIDFromContext(nil))
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	app := fiber.New()
	app.Get("/", middleware.RateLimit("test", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
