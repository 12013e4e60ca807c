package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/honeyguard/honeygate/pkg/domain"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

const topSourcesLimit = 10

type trapEventRepository struct {
	db *gorm.DB
}

func NewTrapEventRepository(db *gorm.DB) trapevent.Repository {
	return &trapEventRepository{
		db: db,
	}
}

func (r *trapEventRepository) Save(ctx context.Context, event *trapevent.TrapEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *trapEventRepository) Get(ctx context.Context, id uuid.UUID) (*trapevent.TrapEvent, error) {
	entity := new(trapevent.TrapEvent)
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("trap_event", id)
		}
		return nil, err
	}
	return entity, nil
}

func (r *trapEventRepository) List(
	ctx context.Context,
	filter trapevent.Filter,
	offset, limit int,
) ([]trapevent.TrapEvent, error) {
	var events []trapevent.TrapEvent
	query := applyFilter(r.db.WithContext(ctx), filter)
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *trapEventRepository) Count(ctx context.Context, filter trapevent.Filter) (int64, error) {
	var count int64
	query := applyFilter(r.db.WithContext(ctx).Model(&trapevent.TrapEvent{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *trapEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&trapevent.TrapEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("trap_event", id)
	}
	return nil
}

func (r *trapEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&trapevent.TrapEvent{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Stats runs the aggregate queries concurrently; each one writes a distinct
// field, so the group wait is the only synchronization needed.
func (r *trapEventRepository) Stats(ctx context.Context, since *time.Time) (*trapevent.Stats, error) {
	stats := &trapevent.Stats{
		ByPath:     make(map[string]int64),
		ByTiming:   make(map[string]int64),
		ByRiskBand: make(map[string]int64),
	}

	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&trapevent.TrapEvent{})
		if since != nil {
			query = query.Where("created_at >= ?", *since)
		}
		return query
	}

	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		return base().Count(&stats.Total).Error
	})

	group.Go(func() error {
		return base().Where("honeypot_triggered = ?", true).Count(&stats.Triggered).Error
	})

	group.Go(func() error {
		rows, err := countBy(base(), "path")
		if err != nil {
			return err
		}
		for _, row := range rows {
			stats.ByPath[row.Label] = row.Count
		}
		return nil
	})

	group.Go(func() error {
		rows, err := countBy(base(), "timing_issue")
		if err != nil {
			return err
		}
		for _, row := range rows {
			stats.ByTiming[row.Label] = row.Count
		}
		return nil
	})

	group.Go(func() error {
		// Band boundaries mirror TrapEvent.RiskBand.
		var rows []bucketRow
		err := base().
			Select("CASE WHEN risk_score >= 70 THEN 'high' WHEN risk_score >= 40 THEN 'medium' ELSE 'low' END AS label, COUNT(*) AS count").
			Group("label").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		for _, row := range rows {
			stats.ByRiskBand[row.Label] = row.Count
		}
		return nil
	})

	group.Go(func() error {
		var rows []bucketRow
		err := base().
			Select("ip_address AS label, COUNT(*) AS count").
			Group("ip_address").
			Order("count DESC").
			Limit(topSourcesLimit).
			Scan(&rows).Error
		if err != nil {
			return err
		}
		for _, row := range rows {
			stats.TopSources = append(stats.TopSources, trapevent.SourceCount{
				IPAddress: row.Label,
				Count:     row.Count,
			})
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	stats.GeneratedAt = time.Now()
	return stats, nil
}

type bucketRow struct {
	Label string
	Count int64
}

func countBy(query *gorm.DB, column string) ([]bucketRow, error) {
	var rows []bucketRow
	err := query.
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func applyFilter(query *gorm.DB, filter trapevent.Filter) *gorm.DB {
	if filter.IPAddress != "" {
		query = query.Where("ip_address = ?", filter.IPAddress)
	}
	if filter.Path != "" {
		query = query.Where("path = ?", filter.Path)
	}
	if filter.Profile != "" {
		query = query.Where("profile = ?", filter.Profile)
	}
	if filter.Triggered != nil {
		query = query.Where("honeypot_triggered = ?", *filter.Triggered)
	}
	if filter.TimingIssue != "" {
		query = query.Where("timing_issue = ?", filter.TimingIssue)
	}
	if filter.MinRisk > 0 {
		query = query.Where("risk_score >= ?", filter.MinRisk)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("created_at <= ?", *filter.Until)
	}
	return query
}
