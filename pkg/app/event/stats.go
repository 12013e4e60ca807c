package event

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/common"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// StatsCache is the slice of the cache the stats pipeline needs. The infra
// cache satisfies it.
//
//go:generate mockery --name=StatsCache --dir=. --output=./mocks --filename=stats_cache_mock.go --case=underscore --with-expecter
type StatsCache interface {
	GetStats(ctx context.Context, window string) (*trapevent.Stats, error)
	SaveStats(ctx context.Context, window string, stats *trapevent.Stats) error
	InvalidateStats(ctx context.Context) error
}

//go:generate mockery --name=StatsProvider --dir=. --output=./mocks --filename=stats_provider_mock.go --case=underscore --with-expecter
type StatsProvider interface {
	// Stats aggregates the recorded events inside the window. A zero
	// window means all time. Aggregates are served from cache when fresh;
	// hot path counters are overlaid live on every call.
	Stats(ctx context.Context, window time.Duration) (*trapevent.Stats, error)
}

type statsProvider struct {
	logger   *logrus.Logger
	repo     trapevent.Repository
	cache    StatsCache
	memory   *common.TTLMap
	activity *PathActivity
}

func NewStatsProvider(
	logger *logrus.Logger,
	repo trapevent.Repository,
	cache StatsCache,
	memory *common.TTLMap,
	activity *PathActivity,
) StatsProvider {
	return &statsProvider{
		logger:   logger,
		repo:     repo,
		cache:    cache,
		memory:   memory,
		activity: activity,
	}
}

// Stats resolves the aggregate through process memory, then redis, then the
// repository, backfilling the faster layers on the way back out.
func (p *statsProvider) Stats(ctx context.Context, window time.Duration) (*trapevent.Stats, error) {
	key := windowKey(window)

	if stats, ok := p.statsFromMemory(key); ok {
		stats.HotPaths = p.activity.Snapshot()
		return stats, nil
	}

	if cached, err := p.cache.GetStats(ctx, key); err == nil && cached != nil {
		p.saveStatsToMemory(key, cached)
		cached.HotPaths = p.activity.Snapshot()
		return cached, nil
	}

	var since *time.Time
	if window > 0 {
		cutoff := time.Now().Add(-window)
		since = &cutoff
	}

	stats, err := p.repo.Stats(ctx, since)
	if err != nil {
		p.logger.WithError(err).Error("failed to compute trap event stats")
		return nil, err
	}

	if err := p.cache.SaveStats(ctx, key, stats); err != nil {
		p.logger.WithError(err).Warn("failed to cache trap event stats")
	}
	p.saveStatsToMemory(key, stats)

	stats.HotPaths = p.activity.Snapshot()
	return stats, nil
}

// statsFromMemory hands back a copy, so the hot-path overlay on the returned
// value never touches the cached entry.
func (p *statsProvider) statsFromMemory(key string) (*trapevent.Stats, bool) {
	value, found := p.memory.Get(key)
	if !found {
		return nil, false
	}
	stats, ok := value.(trapevent.Stats)
	if !ok {
		return nil, false
	}
	return &stats, true
}

func (p *statsProvider) saveStatsToMemory(key string, stats *trapevent.Stats) {
	p.memory.Set(key, *stats)
}

func windowKey(window time.Duration) string {
	if window <= 0 {
		return "all"
	}
	return window.String()
}
