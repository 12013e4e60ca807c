package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type StatsCache struct {
	mock.Mock
}

func (m *StatsCache) GetStats(ctx context.Context, window string) (*trapevent.Stats, error) {
	args := m.Called(ctx, window)
	stats, _ := args.Get(0).(*trapevent.Stats)
	return stats, args.Error(1)
}

func (m *StatsCache) SaveStats(ctx context.Context, window string, stats *trapevent.Stats) error {
	args := m.Called(ctx, window, stats)
	return args.Error(0)
}

func (m *StatsCache) InvalidateStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
