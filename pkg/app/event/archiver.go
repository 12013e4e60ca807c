package event

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// DefaultArchiveDays is the retention applied when a request does not name
// its own cutoff.
const DefaultArchiveDays = 90

//go:generate mockery --name=Archiver --dir=. --output=./mocks --filename=archiver_mock.go --case=underscore --with-expecter
type Archiver interface {
	// Archive deletes events older than the given number of days and
	// returns how many rows went away.
	Archive(ctx context.Context, olderThanDays int) (int64, error)
}

type archiver struct {
	logger *logrus.Logger
	repo   trapevent.Repository
	cache  StatsCache
}

func NewArchiver(logger *logrus.Logger, repo trapevent.Repository, cache StatsCache) Archiver {
	return &archiver{
		logger: logger,
		repo:   repo,
		cache:  cache,
	}
}

func (a *archiver) Archive(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		olderThanDays = DefaultArchiveDays
	}
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	count, err := a.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		a.logger.WithError(err).Error("failed to archive trap events")
		return 0, fmt.Errorf("failed to archive trap events: %w", err)
	}

	// Cached aggregates still count the deleted rows.
	if err := a.cache.InvalidateStats(ctx); err != nil {
		a.logger.WithError(err).Warn("failed to invalidate cached stats")
	}

	a.logger.WithFields(logrus.Fields{
		"count":  count,
		"cutoff": cutoff.Format(time.RFC3339),
	}).Info("archived old trap events")

	return count, nil
}
