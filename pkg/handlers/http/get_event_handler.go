package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/domain"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// EventCache is the slice of the cache the event handlers need. The infra
// cache satisfies it.
type EventCache interface {
	GetEvent(ctx context.Context, id string) (*trapevent.TrapEvent, error)
	SaveEvent(ctx context.Context, event *trapevent.TrapEvent) error
	DeleteEvent(ctx context.Context, id string) error
	InvalidateStats(ctx context.Context) error
}

type getEventHandler struct {
	logger *logrus.Logger
	repo   trapevent.Repository
	cache  EventCache
}

func NewGetEventHandler(logger *logrus.Logger, repo trapevent.Repository, cache EventCache) Handler {
	return &getEventHandler{
		logger: logger,
		repo:   repo,
		cache:  cache,
	}
}

// Handle @Summary      Get a trap event
// @Description  Retrieves a single trap event by ID
// @Tags         Events
// @Param        Authorization header string true "Authorization token"
// @Param        event_id path string true "Event ID"
// @Produce      json
// @Success      200 {object} trapevent.TrapEvent "Trap event"
// @Failure      400 {object} map[string]interface{} "Invalid event ID"
// @Failure      404 {object} map[string]interface{} "Event not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /api/v1/events/{event_id} [get]
func (h *getEventHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	if cached, err := h.cache.GetEvent(c.Context(), id.String()); err == nil && cached != nil {
		return c.Status(fiber.StatusOK).JSON(cached)
	}

	event, err := h.repo.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
		}
		h.logger.WithError(err).Error("failed to get trap event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get event"})
	}

	go func(event trapevent.TrapEvent) {
		if err := h.cache.SaveEvent(context.Background(), &event); err != nil {
			h.logger.WithError(err).Warn("failed to cache trap event")
		}
	}(*event)

	return c.Status(fiber.StatusOK).JSON(event)
}
