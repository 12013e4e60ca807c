package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

type Manager struct {
	mock.Mock
}

func (m *Manager) Issue(renderedAt time.Time) (string, error) {
	args := m.Called(renderedAt)
	return args.String(0), args.Error(1)
}

func (m *Manager) Resolve(tokenString string) (time.Time, error) {
	args := m.Called(tokenString)
	issuedAt, _ := args.Get(0).(time.Time)
	return issuedAt, args.Error(1)
}
