package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/honeyguard/honeygate/pkg/infra/cache/channel"
	"github.com/honeyguard/honeygate/pkg/infra/cache/event"
)

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, ch channel.Channel, ev event.Event) error {
	args := m.Called(ctx, ch, ev)
	return args.Error(0)
}
