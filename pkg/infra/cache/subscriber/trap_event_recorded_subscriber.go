package subscriber

import (
	"context"

	"github.com/honeyguard/honeygate/pkg/cache"
	infraCache "github.com/honeyguard/honeygate/pkg/infra/cache"
	"github.com/honeyguard/honeygate/pkg/infra/cache/event"
	"github.com/honeyguard/honeygate/pkg/infra/stream"
	"github.com/sirupsen/logrus"
)

type TrapEventRecordedSubscriber struct {
	logger *logrus.Logger
	hub    *stream.Hub
	cache  *cache.Cache
}

func NewTrapEventRecordedSubscriber(
	logger *logrus.Logger,
	hub *stream.Hub,
	c *cache.Cache,
) infraCache.EventSubscriber[event.TrapEventRecordedEvent] {
	return &TrapEventRecordedSubscriber{
		logger: logger,
		hub:    hub,
		cache:  c,
	}
}

// OnEvent warms the event cache and pushes the event to connected live feed
// clients. A failed cache write costs a later database read, not the feed.
func (s *TrapEventRecordedSubscriber) OnEvent(ctx context.Context, evt event.TrapEventRecordedEvent) error {
	ev := evt.Event
	if err := s.cache.SaveEvent(ctx, &ev); err != nil {
		s.logger.WithError(err).WithField("event_id", ev.ID).Warn("failed to warm event cache")
	}
	s.hub.Broadcast(&ev)
	return nil
}
