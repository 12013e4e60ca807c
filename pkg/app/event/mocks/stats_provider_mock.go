package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type StatsProvider struct {
	mock.Mock
}

func (m *StatsProvider) Stats(ctx context.Context, window time.Duration) (*trapevent.Stats, error) {
	args := m.Called(ctx, window)
	stats, _ := args.Get(0).(*trapevent.Stats)
	return stats, args.Error(1)
}
