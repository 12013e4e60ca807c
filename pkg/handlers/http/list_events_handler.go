package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type listEventsHandler struct {
	logger *logrus.Logger
	repo   trapevent.Repository
}

func NewListEventsHandler(logger *logrus.Logger, repo trapevent.Repository) Handler {
	return &listEventsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary      List trap events
// @Description  Retrieves recorded trap events, newest first, with optional filters
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
// @Param        offset    query int    false "Pagination offset"
// @Param        limit     query int    false "Pagination limit (max 100, default 10)"
// @Produce      json
// @Success      200 {object} map[string]interface{} "List of trap events"
// @Failure      400 {object} map[string]interface{} "Invalid filter parameter"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /api/v1/events [get]
func (h *listEventsHandler) Handle(c *fiber.Ctx) error {
	filter, err := parseEventFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	offset := 0
	limit := 10
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if val, err := strconv.Atoi(offsetStr); err == nil && val >= 0 {
			offset = val
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}

	events, err := h.repo.List(c.Context(), filter, offset, limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list trap events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list events"})
	}

	total, err := h.repo.Count(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to count trap events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count events"})
	}

	if events == nil {
		events = []trapevent.TrapEvent{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"events": events,
		"count":  len(events),
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

// parseEventFilter reads the shared query filters of the list and export
// endpoints. Unknown values in typed fields are rejected rather than
// silently dropped, so a misspelled filter does not return the whole table.
func parseEventFilter(c *fiber.Ctx) (trapevent.Filter, error) {
	filter := trapevent.Filter{
		IPAddress: c.Query("ip"),
		Path:      c.Query("path"),
		Profile:   c.Query("profile"),
	}

	if triggeredStr := c.Query("triggered"); triggeredStr != "" {
		triggered, err := strconv.ParseBool(triggeredStr)
		if err != nil {
			return filter, fmt.Errorf("invalid triggered value %q", triggeredStr)
		}
		filter.Triggered = &triggered
	}

	if timing := c.Query("timing"); timing != "" {
		switch timing {
		case trapevent.TimingValid, trapevent.TimingTooFast, trapevent.TimingTooSlow:
			filter.TimingIssue = timing
		default:
			return filter, fmt.Errorf("invalid timing value %q", timing)
		}
	}

	if minRiskStr := c.Query("min_risk"); minRiskStr != "" {
		minRisk, err := strconv.Atoi(minRiskStr)
		if err != nil || minRisk < 0 {
			return filter, fmt.Errorf("invalid min_risk value %q", minRiskStr)
		}
		filter.MinRisk = minRisk
	}

	if sinceStr := c.Query("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return filter, fmt.Errorf("invalid since value, expected RFC3339 timestamp")
		}
		filter.Since = &since
	}

	if untilStr := c.Query("until"); untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			return filter, fmt.Errorf("invalid until value, expected RFC3339 timestamp")
		}
		filter.Until = &until
	}

	return filter, nil
}
