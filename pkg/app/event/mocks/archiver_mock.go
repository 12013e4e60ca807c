package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Archiver struct {
	mock.Mock
}

func (m *Archiver) Archive(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}
