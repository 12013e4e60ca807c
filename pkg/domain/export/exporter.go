package export

import (
	"context"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// Exporter streams recorded trap events to an external sink. Unlike alert
// channels, exporters see every event, triggered or not.
type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Handle(ctx context.Context, event *trapevent.TrapEvent) error
	Close()
}
