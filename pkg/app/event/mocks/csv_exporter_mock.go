package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type CSVExporter struct {
	mock.Mock
}

func (m *CSVExporter) Export(ctx context.Context, filter trapevent.Filter, w io.Writer) (int, error) {
	args := m.Called(ctx, filter, w)
	count, _ := args.Get(0).(int)
	return count, args.Error(1)
}
