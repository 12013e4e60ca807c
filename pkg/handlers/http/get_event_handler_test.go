package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeygate/pkg/domain"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	trapeventMocks "github.com/honeyguard/honeygate/pkg/domain/trapevent/mocks"
)

type mockEventCache struct {
	mock.Mock
}

func (m *mockEventCache) GetEvent(ctx context.Context, id string) (*trapevent.TrapEvent, error) {
	args := m.Called(ctx, id)
	event, _ := args.Get(0).(*trapevent.TrapEvent)
	return event, args.Error(1)
}

func (m *mockEventCache) SaveEvent(ctx context.Context, event *trapevent.TrapEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventCache) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEventCache) InvalidateStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestGetEventHandler_CacheMiss(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	repo := new(trapeventMocks.Repository)
	cache := new(mockEventCache)

	handler := NewGetEventHandler(logger, repo, cache)

	app := fiber.New()
	app.Get("/api/v1/events/:event_id", handler.Handle)

	id := uuid.New()
	event := &trapevent.TrapEvent{
		ID:        id,
		IPAddress: "203.0.113.9",
		Path:      "/admin/login/",
		Method:    "POST",
		Profile:   "django",
		RiskScore: 80,
	}

	cache.On("GetEvent", mock.Anything, id.String()).Return(nil, assert.AnError)
	repo.On("Get", mock.Anything, id).Return(event, nil)
	// The cache write happens on a goroutine after the response is sent.
	cache.On("SaveEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/events/"+id.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got trapevent.TrapEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "203.0.113.9", got.IPAddress)
	assert.Equal(t, 80, got.RiskScore)

	repo.AssertExpectations(t)
}

func TestGetEventHandler_CacheHit(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	repo := new(trapeventMocks.Repository)
	cache := new(mockEventCache)

	handler := NewGetEventHandler(logger, repo, cache)

	app := fiber.New()
	app.Get("/api/v1/events/:event_id", handler.Handle)

	id := uuid.New()
	cache.On("GetEvent", mock.Anything, id.String()).
		Return(&trapevent.TrapEvent{ID: id, IPAddress: "203.0.113.9"}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/events/"+id.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGetEventHandler_InvalidID(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	repo := new(trapeventMocks.Repository)
	cache := new(mockEventCache)

	handler := NewGetEventHandler(logger, repo, cache)

	app := fiber.New()
	app.Get("/api/v1/events/:event_id", handler.Handle)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/events/not-a-uuid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetEventHandler_NotFound(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	repo := new(trapeventMocks.Repository)
	cache := new(mockEventCache)

	handler := NewGetEventHandler(logger, repo, cache)

	app := fiber.New()
	app.Get("/api/v1/events/:event_id", handler.Handle)

	id := uuid.New()
	cache.On("GetEvent", mock.Anything, id.String()).Return(nil, assert.AnError)
	repo.On("Get", mock.Anything, id).Return(nil, domain.NewNotFoundError("trap_event", id))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/events/"+id.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetEventHandler_RepositoryError(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	repo := new(trapeventMocks.Repository)
	cache := new(mockEventCache)

	handler := NewGetEventHandler(logger, repo, cache)

	app := fiber.New()
	app.Get("/api/v1/events/:event_id", handler.Handle)

	id := uuid.New()
	cache.On("GetEvent", mock.Anything, id.String()).Return(nil, assert.AnError)
	repo.On("Get", mock.Anything, id).Return(nil, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/events/"+id.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
