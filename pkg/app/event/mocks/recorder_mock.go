package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type Recorder struct {
	mock.Mock
}

func (m *Recorder) Record(ctx context.Context, capture *decoy.Capture) (*trapevent.TrapEvent, error) {
	args := m.Called(ctx, capture)
	event, _ := args.Get(0).(*trapevent.TrapEvent)
	return event, args.Error(1)
}

func (m *Recorder) RecordPageView(ctx context.Context, capture *decoy.Capture) (*trapevent.TrapEvent, error) {
	args := m.Called(ctx, capture)
	event, _ := args.Get(0).(*trapevent.TrapEvent)
	return event, args.Error(1)
}
