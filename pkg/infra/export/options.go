package export

import "github.com/honeyguard/honeygate/pkg/domain/export"

// ExporterLocatorOption is a function that configures an ExporterLocator
type ExporterLocatorOption func(*ExporterLocator)

// WithExporter registers an exporter prototype with the given name
func WithExporter(name string, exporter export.Exporter) ExporterLocatorOption {
	return func(el *ExporterLocator) {
		if el.exporters == nil {
			el.exporters = make(map[string]export.Exporter)
		}
		el.exporters[name] = exporter
	}
}
