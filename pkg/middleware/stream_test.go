package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/infra/stream"
	"github.com/honeyguard/honeygate/pkg/middleware"
)

func streamApp(cfg *config.Config) (*fiber.App, *capturedLimiter) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests

	captured := &capturedLimiter{}
	app := fiber.New()
	app.Use(middleware.NewStreamMiddleware(cfg, logger).Middleware())
	app.Get("/api/v1/events/stream", func(c *fiber.Ctx) error {
		if limiter, ok := c.Locals("stream_limiter").(*stream.Limiter); ok {
			captured.limiter = limiter
		}
		return c.SendString("OK")
	})
	return app, captured
}

type capturedLimiter struct {
	limiter *stream.Limiter
}

func upgradeRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/stream", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	return req
}

func TestStreamMiddleware_RequiresUpgrade(t *testing.T) {
	app, _ := streamApp(&config.Config{Stream: config.StreamConfig{Enabled: true, MaxConnections: 2}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/events/stream", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestStreamMiddleware_Disabled(t *testing.T) {
	app, _ := streamApp(&config.Config{Stream: config.StreamConfig{Enabled: false, MaxConnections: 2}})

	resp, err := app.Test(upgradeRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStreamMiddleware_AcquiresSlot(t *testing.T) {
	app, captured := streamApp(&config.Config{Stream: config.StreamConfig{Enabled: true, MaxConnections: 2}})

	resp, err := app.Test(upgradeRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, captured.limiter)
	assert.Equal(t, 1, captured.limiter.Active())
}

func TestStreamMiddleware_RejectsWhenFull(t *testing.T) {
	app, _ := streamApp(&config.Config{Stream: config.StreamConfig{Enabled: true, MaxConnections: 1}})

	// The test handler never releases its slot, so the second upgrade is
	// turned away.
	resp, err := app.Test(upgradeRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(upgradeRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
