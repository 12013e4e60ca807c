package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/app/event"
	"github.com/honeyguard/honeygate/pkg/handlers/http/request"
)

type archiveEventsHandler struct {
	logger   *logrus.Logger
	archiver event.Archiver
}

func NewArchiveEventsHandler(logger *logrus.Logger, archiver event.Archiver) Handler {
	return &archiveEventsHandler{
		logger:   logger,
		archiver: archiver,
	}
}

// Handle @Summary      Archive old trap events
// @Description  Deletes events older than the given number of days (default 90) and returns the count
// @Tags         Events
// @Param        Authorization header string true "Authorization token"
// @Param        body body request.ArchiveEventsRequest false "Archive parameters"
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]interface{} "Number of archived events"
// @Failure      400 {object} map[string]interface{} "Invalid request body"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /api/v1/events/archive [post]
func (h *archiveEventsHandler) Handle(c *fiber.Ctx) error {
	var req request.ArchiveEventsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := req.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	days := req.OlderThanDays
	if days <= 0 {
		days = event.DefaultArchiveDays
	}

	count, err := h.archiver.Archive(c.Context(), days)
	if err != nil {
		h.logger.WithError(err).Error("failed to archive trap events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to archive events"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"archived":        count,
		"older_than_days": days,
	})
}
