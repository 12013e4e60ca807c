package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/app/event"
)

type getStatsHandler struct {
	logger *logrus.Logger
	stats  event.StatsProvider
}

func NewGetStatsHandler(logger *logrus.Logger, stats event.StatsProvider) Handler {
	return &getStatsHandler{
		logger: logger,
		stats:  stats,
	}
}

// Handle @Summary      Trap event statistics
// @Description  Returns totals, trigger counts, and breakdowns by path, timing issue, and risk band
// @Tags         Stats
// @Param        Authorization header string true "Authorization token"
// @Param        window query string false "Aggregation window as a duration (e.g. 24h); omit for all time"
// @Produce      json
// @Success      200 {object} trapevent.Stats "Aggregated statistics"
// @Failure      400 {object} map[string]interface{} "Invalid window"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /api/v1/stats [get]
func (h *getStatsHandler) Handle(c *fiber.Ctx) error {
	var window time.Duration
	if windowStr := c.Query("window"); windowStr != "" {
		parsed, err := time.ParseDuration(windowStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid window, expected a positive duration"})
		}
		window = parsed
	}

	stats, err := h.stats.Stats(c.Context(), window)
	if err != nil {
		h.logger.WithError(err).Error("failed to aggregate trap event stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to aggregate stats"})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
