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
	"github.com/honeyguard/honeygate/pkg/common"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	trapeventMocks "github.com/honeyguard/honeygate/pkg/domain/trapevent/mocks"
)

type statsFixture struct {
	repo     *trapeventMocks.Repository
	cache    *eventMocks.StatsCache
	memory   *common.TTLMap
	activity *PathActivity
	provider StatsProvider
}

func setupStatsProvider(t *testing.T) *statsFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests

	f := &statsFixture{
		repo:     new(trapeventMocks.Repository),
		cache:    new(eventMocks.StatsCache),
		memory:   common.NewTTLMap(time.Minute),
		activity: NewPathActivity(common.NewTTLMap(time.Minute)),
	}
	f.provider = NewStatsProvider(logger, f.repo, f.cache, f.memory, f.activity)
	return f
}

func TestStatsProvider_CacheMiss(t *testing.T) {
	f := setupStatsProvider(t)
	f.activity.Bump("/admin/login/")

	computed := &trapevent.Stats{Total: 12, Triggered: 4}

	f.cache.On("GetStats", mock.Anything, "all").Return(nil, errors.New("redis: nil")).Once()
	f.repo.On("Stats", mock.Anything, (*time.Time)(nil)).Return(computed, nil).Once()
	f.cache.On("SaveStats", mock.Anything, "all", computed).Return(nil).Once()

	stats, err := f.provider.Stats(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Total)
	assert.Equal(t, int64(1), stats.HotPaths["/admin/login/"])

	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestStatsProvider_CacheHit(t *testing.T) {
	f := setupStatsProvider(t)
	f.activity.Bump("/wp-login.php")

	cached := &trapevent.Stats{Total: 7}
	f.cache.On("GetStats", mock.Anything, "all").Return(cached, nil).Once()

	stats, err := f.provider.Stats(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Total)
	assert.Equal(t, int64(1), stats.HotPaths["/wp-login.php"])

	f.repo.AssertNotCalled(t, "Stats", mock.Anything, mock.Anything)
}

func TestStatsProvider_MemoryHitSkipsRedis(t *testing.T) {
	f := setupStatsProvider(t)
	f.activity.Bump("/admin/login/")

	cached := &trapevent.Stats{Total: 9}
	f.cache.On("GetStats", mock.Anything, "all").Return(cached, nil).Once()

	first, err := f.provider.Stats(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.HotPaths["/admin/login/"])

	f.activity.Bump("/admin/login/")

	second, err := f.provider.Stats(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(9), second.Total)
	assert.Equal(t, int64(2), second.HotPaths["/admin/login/"])
	f.cache.AssertNumberOfCalls(t, "GetStats", 1)
}

func TestStatsProvider_WindowedQuery(t *testing.T) {
	f := setupStatsProvider(t)

	f.cache.On("GetStats", mock.Anything, "24h0m0s").Return(nil, errors.New("redis: nil")).Once()
	f.repo.On("Stats", mock.Anything, mock.MatchedBy(func(since *time.Time) bool {
		if since == nil {
			return false
		}
		return time.Since(*since) > 23*time.Hour && time.Since(*since) < 25*time.Hour
	})).Return(&trapevent.Stats{Total: 3}, nil).Once()
	f.cache.On("SaveStats", mock.Anything, "24h0m0s", mock.Anything).Return(nil).Once()

	stats, err := f.provider.Stats(context.Background(), 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	f.repo.AssertExpectations(t)
}

func TestStatsProvider_RepositoryError(t *testing.T) {
	f := setupStatsProvider(t)

	f.cache.On("GetStats", mock.Anything, "all").Return(nil, errors.New("redis: nil")).Once()
	f.repo.On("Stats", mock.Anything, (*time.Time)(nil)).
		Return(nil, errors.New("connection refused")).Once()

	_, err := f.provider.Stats(context.Background(), 0)

	require.Error(t, err)
	f.cache.AssertNotCalled(t, "SaveStats", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatsProvider_CacheWriteFailureIsNonFatal(t *testing.T) {
	f := setupStatsProvider(t)

	computed := &trapevent.Stats{Total: 2}
	f.cache.On("GetStats", mock.Anything, "all").Return(nil, errors.New("redis: nil")).Once()
	f.repo.On("Stats", mock.Anything, (*time.Time)(nil)).Return(computed, nil).Once()
	f.cache.On("SaveStats", mock.Anything, "all", computed).
		Return(errors.New("redis down")).Once()

	stats, err := f.provider.Stats(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
}

func TestWindowKey(t *testing.T) {
	assert.Equal(t, "all", windowKey(0))
	assert.Equal(t, "all", windowKey(-time.Hour))
	assert.Equal(t, "24h0m0s", windowKey(24*time.Hour))
}
