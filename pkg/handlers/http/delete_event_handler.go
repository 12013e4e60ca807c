package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/domain"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type deleteEventHandler struct {
	logger *logrus.Logger
	repo   trapevent.Repository
	cache  EventCache
}

func NewDeleteEventHandler(logger *logrus.Logger, repo trapevent.Repository, cache EventCache) Handler {
	return &deleteEventHandler{
		logger: logger,
		repo:   repo,
		cache:  cache,
	}
}

// Handle @Summary      Delete a trap event
// @Description  Deletes a single trap event by ID
// @Tags         Events
// @Param        Authorization header string true "Authorization token"
// @Param        event_id path string true "Event ID"
// @Produce      json
// @Success      204 "Event deleted"
// @Failure      400 {object} map[string]interface{} "Invalid event ID"
// @Failure      404 {object} map[string]interface{} "Event not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /api/v1/events/{event_id} [delete]
func (h *deleteEventHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	if err := h.repo.Delete(c.Context(), id); err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
		}
		h.logger.WithError(err).Error("failed to delete trap event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete event"})
	}

	if err := h.cache.DeleteEvent(c.Context(), id.String()); err != nil {
		h.logger.WithError(err).Warn("failed to drop cached trap event")
	}
	// Aggregates still count the deleted row.
	if err := h.cache.InvalidateStats(c.Context()); err != nil {
		h.logger.WithError(err).Warn("failed to invalidate cached stats")
	}

	return c.SendStatus(http.StatusNoContent)
}
