package middleware

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/infra/stream"
)

type streamMiddleware struct {
	config  *config.Config
	logger  *logrus.Logger
	limiter *stream.Limiter
}

// NewStreamMiddleware guards the live feed endpoint: only websocket
// upgrades pass, and no more than the configured number at a time. The
// limiter slot is released by the stream handler when the connection ends.
func NewStreamMiddleware(
	config *config.Config,
	logger *logrus.Logger,
) Middleware {
	return &streamMiddleware{
		config:  config,
		logger:  logger,
		limiter: stream.NewLimiter(config.Stream.MaxConnections),
	}
}

func (m *streamMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.config.Stream.Enabled {
			return fiber.ErrNotFound
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !m.limiter.Acquire() {
			m.logger.Warn("maximum stream connections reached, rejecting connection")
			return fiber.ErrTooManyRequests
		}
		c.Locals("stream_limiter", m.limiter)
		return c.Next()
	}
}
