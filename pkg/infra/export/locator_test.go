package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/domain/export"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// mockExporter is a test mock for export.Exporter
type mockExporter struct {
	name                 string
	validateErr          error
	withSettingsErr      error
	withSettingsExporter export.Exporter
}

func newMockExporter(name string) *mockExporter {
	return &mockExporter{name: name}
}

func (m *mockExporter) Name() string {
	return m.name
}

func (m *mockExporter) ValidateConfig(settings map[string]interface{}) error {
	return m.validateErr
}

func (m *mockExporter) WithSettings(settings map[string]interface{}) (export.Exporter, error) {
	if m.withSettingsErr != nil {
		return nil, m.withSettingsErr
	}
	if m.withSettingsExporter != nil {
		return m.withSettingsExporter, nil
	}
	return m, nil
}

func (m *mockExporter) Handle(ctx context.Context, event *trapevent.TrapEvent) error {
	return nil
}

func (m *mockExporter) Close() {}

func TestNewExporterLocator_NoOptions(t *testing.T) {
	locator := NewExporterLocator()

	assert.NotNil(t, locator)
	assert.Empty(t, locator.exporters)
}

func TestNewExporterLocator_WithExporter(t *testing.T) {
	kafka := newMockExporter("kafka")

	locator := NewExporterLocator(
		WithExporter("kafka", kafka),
	)

	assert.Len(t, locator.exporters, 1)
	assert.Equal(t, kafka, locator.exporters["kafka"])
}

func TestGetExporter_Success(t *testing.T) {
	configured := newMockExporter("kafka")
	base := newMockExporter("kafka")
	base.withSettingsExporter = configured

	locator := NewExporterLocator(
		WithExporter("kafka", base),
	)

	cfg := config.ExporterConfig{
		Name: "kafka",
		Settings: map[string]interface{}{
			"host":  "localhost",
			"port":  "9092",
			"topic": "honeygate-events",
		},
	}

	result, err := locator.GetExporter(cfg)

	assert.NoError(t, err)
	assert.Equal(t, configured, result)
}

func TestGetExporter_UnknownExporter(t *testing.T) {
	locator := NewExporterLocator()

	result, err := locator.GetExporter(config.ExporterConfig{Name: "unknown"})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter: unknown")
}

func TestGetExporter_ValidationError(t *testing.T) {
	exporter := newMockExporter("kafka")
	exporter.validateErr = errors.New("kafka topic is required")

	locator := NewExporterLocator(
		WithExporter("kafka", exporter),
	)

	result, err := locator.GetExporter(config.ExporterConfig{Name: "kafka"})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "kafka topic is required", err.Error())
}

func TestGetExporter_WithSettingsError(t *testing.T) {
	exporter := newMockExporter("kafka")
	exporter.withSettingsErr = errors.New("failed to create producer")

	locator := NewExporterLocator(
		WithExporter("kafka", exporter),
	)

	result, err := locator.GetExporter(config.ExporterConfig{Name: "kafka"})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "failed to create producer", err.Error())
}

func TestValidateExporter_Success(t *testing.T) {
	locator := NewExporterLocator(
		WithExporter("kafka", newMockExporter("kafka")),
	)

	err := locator.ValidateExporter(config.ExporterConfig{Name: "kafka"})

	assert.NoError(t, err)
}

func TestValidateExporter_UnknownExporter(t *testing.T) {
	locator := NewExporterLocator()

	err := locator.ValidateExporter(config.ExporterConfig{Name: "unknown"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter: unknown")
}
