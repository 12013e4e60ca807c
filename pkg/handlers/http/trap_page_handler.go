package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/app/event"
	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/i18n"
	"github.com/honeyguard/honeygate/pkg/infra/prometheus"
	"github.com/honeyguard/honeygate/pkg/infra/rendertoken"
)

type trapPageHandler struct {
	logger   *logrus.Logger
	registry *decoy.Registry
	bundle   *i18n.Bundle
	tokens   rendertoken.Manager
	recorder event.Recorder
}

func NewTrapPageHandler(
	logger *logrus.Logger,
	registry *decoy.Registry,
	bundle *i18n.Bundle,
	tokens rendertoken.Manager,
	recorder event.Recorder,
) Handler {
	return &trapPageHandler{
		logger:   logger,
		registry: registry,
		bundle:   bundle,
		tokens:   tokens,
		recorder: recorder,
	}
}

// Handle serves a decoy login page. The page carries a fresh signed render
// token so the submit handler can measure how long the form took to fill.
// Nothing here may fail loudly; a decoy that errors gives itself away.
func (h *trapPageHandler) Handle(c *fiber.Ctx) error {
	profile, ok := profileFromCtx(c, h.registry)
	if !ok {
		return fiber.ErrNotFound
	}

	capture := decoy.FromRequest(c, profile)
	if _, err := h.recorder.RecordPageView(c.Context(), capture); err != nil {
		h.logger.WithError(err).Warn("failed to record page view")
	}

	token, err := h.tokens.Issue(time.Now())
	if err != nil {
		h.logger.WithError(err).Error("failed to issue render token")
		token = ""
	}

	prometheus.PageRendersTotal.WithLabelValues(profile.Name).Inc()

	page := decoyPageData(profile, h.bundle, c.Get(fiber.HeaderAcceptLanguage), token, c.Path())
	return c.Render(profile.Template, page)
}
