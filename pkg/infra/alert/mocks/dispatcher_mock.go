package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) StartWorkers(n int) {
	m.Called(n)
}

func (m *Dispatcher) Shutdown() {
	m.Called()
}

func (m *Dispatcher) Dispatch(event *trapevent.TrapEvent) {
	m.Called(event)
}
