package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/app/event"
	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/i18n"
	"github.com/honeyguard/honeygate/pkg/infra/rendertoken"
)

type trapSubmitHandler struct {
	logger   *logrus.Logger
	registry *decoy.Registry
	bundle   *i18n.Bundle
	tokens   rendertoken.Manager
	recorder event.Recorder
}

func NewTrapSubmitHandler(
	logger *logrus.Logger,
	registry *decoy.Registry,
	bundle *i18n.Bundle,
	tokens rendertoken.Manager,
	recorder event.Recorder,
) Handler {
	return &trapSubmitHandler{
		logger:   logger,
		registry: registry,
		bundle:   bundle,
		tokens:   tokens,
		recorder: recorder,
	}
}

// Handle takes a login attempt against a decoy page. Every submission is
// recorded and every submission fails: the page re-renders with the
// software's real failed-login message and a fresh render token. Recording
// errors are swallowed so the decoy keeps behaving like a login form.
func (h *trapSubmitHandler) Handle(c *fiber.Ctx) error {
	profile, ok := profileFromCtx(c, h.registry)
	if !ok {
		return fiber.ErrNotFound
	}

	capture := decoy.FromRequest(c, profile)
	if _, err := h.recorder.Record(c.Context(), capture); err != nil {
		h.logger.WithError(err).Error("failed to record trap event")
	}

	token, err := h.tokens.Issue(time.Now())
	if err != nil {
		h.logger.WithError(err).Error("failed to issue render token")
		token = ""
	}

	page := decoyPageData(profile, h.bundle, c.Get(fiber.HeaderAcceptLanguage), token, c.Path())
	page.Username = capture.Username
	page.ErrorMessage = decoyErrorMessage(profile, h.bundle, page.Lang)

	return c.Render(profile.Template, page)
}
