package trapevent

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows event queries. Zero values mean "no constraint".
type Filter struct {
	IPAddress   string
	Path        string
	Profile     string
	Triggered   *bool
	TimingIssue string
	MinRisk     int
	Since       *time.Time
	Until       *time.Time
}

// Stats aggregates the recorded events for the dashboard endpoint.
// HotPaths is filled from the in-process activity window, not the
// database, and is never cached.
type Stats struct {
	Total       int64            `json:"total"`
	Triggered   int64            `json:"triggered"`
	ByPath      map[string]int64 `json:"by_path"`
	ByTiming    map[string]int64 `json:"by_timing"`
	ByRiskBand  map[string]int64 `json:"by_risk_band"`
	TopSources  []SourceCount    `json:"top_sources"`
	HotPaths    map[string]int64 `json:"hot_paths,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}

type SourceCount struct {
	IPAddress string `json:"ip_address"`
	Count     int64  `json:"count"`
}

//go:generate mockery --name=Repository --dir=. --output=mocks/ --filename=repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Save(ctx context.Context, event *TrapEvent) error
	Get(ctx context.Context, id uuid.UUID) (*TrapEvent, error)
	List(ctx context.Context, filter Filter, offset, limit int) ([]TrapEvent, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context, since *time.Time) (*Stats, error)
}
