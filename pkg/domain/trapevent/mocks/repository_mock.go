package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, event *trapevent.TrapEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *Repository) Get(ctx context.Context, id uuid.UUID) (*trapevent.TrapEvent, error) {
	args := m.Called(ctx, id)
	event, _ := args.Get(0).(*trapevent.TrapEvent)
	return event, args.Error(1)
}

func (m *Repository) List(ctx context.Context, filter trapevent.Filter, offset, limit int) ([]trapevent.TrapEvent, error) {
	args := m.Called(ctx, filter, offset, limit)
	events, _ := args.Get(0).([]trapevent.TrapEvent)
	return events, args.Error(1)
}

func (m *Repository) Count(ctx context.Context, filter trapevent.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (m *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (m *Repository) Stats(ctx context.Context, since *time.Time) (*trapevent.Stats, error) {
	args := m.Called(ctx, since)
	stats, _ := args.Get(0).(*trapevent.Stats)
	return stats, args.Error(1)
}
