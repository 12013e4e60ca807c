package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/infra/jwt"
	"github.com/honeyguard/honeygate/pkg/infra/prometheus"
)

const bearerPrefix = "Bearer "

// adminAuthMiddleware guards the admin API with the operator tokens the
// token command mints. Rejections are counted by reason: unauthenticated
// pokes at the admin plane of a honeypot host are themselves worth watching.
type adminAuthMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
}

func NewAdminAuthMiddleware(
	logger *logrus.Logger,
	jwtManager jwt.Manager,
) Middleware {
	return &adminAuthMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
	}
}

func (m *adminAuthMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if header == "" {
			return reject(ctx, "missing", "authorization required")
		}

		token := strings.TrimPrefix(header, bearerPrefix)
		if token == header || token == "" {
			return reject(ctx, "malformed", "bearer token required")
		}

		if err := m.jwtManager.ValidateToken(token); err != nil {
			m.logger.WithError(err).WithField("path", ctx.Path()).Debug("admin token rejected")
			return reject(ctx, "invalid", "invalid token")
		}

		return ctx.Next()
	}
}

func reject(ctx *fiber.Ctx, reason, message string) error {
	prometheus.AdminAuthRejectsTotal.WithLabelValues(reason).Inc()
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}
