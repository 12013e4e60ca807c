package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/honeyguard/honeygate/pkg/infra/fingerprint"
)

type Tracker struct {
	mock.Mock
}

func (m *Tracker) Track(ctx context.Context, fp fingerprint.Fingerprint, triggered bool) (*fingerprint.Activity, error) {
	args := m.Called(ctx, fp, triggered)
	activity, _ := args.Get(0).(*fingerprint.Activity)
	return activity, args.Error(1)
}

func (m *Tracker) Activity(ctx context.Context, fp fingerprint.Fingerprint) (*fingerprint.Activity, error) {
	args := m.Called(ctx, fp)
	activity, _ := args.Get(0).(*fingerprint.Activity)
	return activity, args.Error(1)
}
