package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	eventMocks "github.com/honeyguard/honeygate/pkg/app/event/mocks"
	trapeventMocks "github.com/honeyguard/honeygate/pkg/domain/trapevent/mocks"
)

func setupArchiver(t *testing.T) (Archiver, *trapeventMocks.Repository, *eventMocks.StatsCache) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests

	repo := new(trapeventMocks.Repository)
	cache := new(eventMocks.StatsCache)
	return NewArchiver(logger, repo, cache), repo, cache
}

func cutoffAround(days int) interface{} {
	return mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().AddDate(0, 0, -days)
		return cutoff.Sub(expected).Abs() < time.Minute
	})
}

func TestArchiver_Archive_DefaultRetention(t *testing.T) {
	archiver, repo, cache := setupArchiver(t)

	repo.On("DeleteOlderThan", mock.Anything, cutoffAround(DefaultArchiveDays)).
		Return(int64(42), nil).Once()
	cache.On("InvalidateStats", mock.Anything).Return(nil).Once()

	count, err := archiver.Archive(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestArchiver_Archive_CustomRetention(t *testing.T) {
	archiver, repo, cache := setupArchiver(t)

	repo.On("DeleteOlderThan", mock.Anything, cutoffAround(30)).
		Return(int64(7), nil).Once()
	cache.On("InvalidateStats", mock.Anything).Return(nil).Once()

	count, err := archiver.Archive(context.Background(), 30)

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	repo.AssertExpectations(t)
}

func TestArchiver_Archive_DeleteError(t *testing.T) {
	archiver, repo, cache := setupArchiver(t)

	repo.On("DeleteOlderThan", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection refused")).Once()

	count, err := archiver.Archive(context.Background(), 0)

	require.Error(t, err)
	assert.Zero(t, count)
	assert.Contains(t, err.Error(), "failed to archive trap events")
	cache.AssertNotCalled(t, "InvalidateStats", mock.Anything)
}

func TestArchiver_Archive_CacheInvalidationFailureIsNonFatal(t *testing.T) {
	archiver, repo, cache := setupArchiver(t)

	repo.On("DeleteOlderThan", mock.Anything, mock.Anything).
		Return(int64(3), nil).Once()
	cache.On("InvalidateStats", mock.Anything).Return(errors.New("redis down")).Once()

	count, err := archiver.Archive(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
