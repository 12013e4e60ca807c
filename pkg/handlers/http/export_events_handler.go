package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/app/event"
)

type exportEventsHandler struct {
	logger   *logrus.Logger
	exporter event.CSVExporter
}

func NewExportEventsHandler(logger *logrus.Logger, exporter event.CSVExporter) Handler {
	return &exportEventsHandler{
		logger:   logger,
		exporter: exporter,
	}
}

// Handle @Summary      Export trap events as CSV
// @Description  Streams the filtered trap events as a CSV download
// @Tags         Events
// @Param        Authorization header string true "Authorization token"
// @Param        ip        query string false "Filter by source IP address"
// @Param        path      query string false "Filter by decoy path"
// @Param        profile   query string false "Filter by decoy profile"
// @Param        triggered query bool   false "Filter by honeypot field state"
// @Param        timing    query string false "Filter by timing issue (valid|too_fast|too_slow)"
// @Param        min_risk  query int    false "Minimum risk score"
// @Param        since     query string false "Only events at or after this RFC3339 timestamp"
// @Param        until     query string false "Only events at or before this RFC3339 timestamp"
// @Produce      text/csv
// @Success      200 {string} string "CSV export"
// @Failure      400 {object} map[string]interface{} "Invalid filter parameter"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /api/v1/events/export [get]
func (h *exportEventsHandler) Handle(c *fiber.Ctx) error {
	filter, err := parseEventFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="honeygate_events.csv"`)

	rows, err := h.exporter.Export(c.Context(), filter, c.Response().BodyWriter())
	if err != nil {
		h.logger.WithError(err).Error("failed to export trap events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to export events"})
	}

	h.logger.WithField("rows", rows).Debug("served trap event export")
	return nil
}
