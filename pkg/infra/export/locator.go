package export

import (
	"fmt"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/domain/export"
)

type ExporterLocator struct {
	exporters map[string]export.Exporter
}

func NewExporterLocator(opts ...ExporterLocatorOption) *ExporterLocator {
	el := &ExporterLocator{
		exporters: make(map[string]export.Exporter),
	}
	for _, opt := range opts {
		opt(el)
	}
	return el
}

func (l *ExporterLocator) GetExporter(cfg config.ExporterConfig) (export.Exporter, error) {
	base, ok := l.exporters[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("unknown exporter: %s", cfg.Name)
	}
	if err := base.ValidateConfig(cfg.Settings); err != nil {
		return nil, err
	}
	exporter, err := base.WithSettings(cfg.Settings)
	if err != nil {
		return nil, err
	}
	return exporter, nil
}

func (l *ExporterLocator) ValidateExporter(cfg config.ExporterConfig) error {
	base, ok := l.exporters[cfg.Name]
	if !ok {
		return fmt.Errorf("unknown exporter: %s", cfg.Name)
	}
	return base.ValidateConfig(cfg.Settings)
}
