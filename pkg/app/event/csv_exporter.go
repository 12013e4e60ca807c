package event

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
)

// exportBatchSize bounds how many rows one repository page carries, so a
// large export never loads the whole table.
const exportBatchSize = 500

var csvHeader = []string{
	"CreatedAt",
	"IpAddress",
	"Path",
	"Method",
	"Username",
	"Password",
	"HoneypotTriggered",
	"TimingIssue",
	"ElapsedTime",
	"RiskScore",
	"UserAgent",
	"Referer",
}

//go:generate mockery --name=CSVExporter --dir=. --output=./mocks --filename=csv_exporter_mock.go --case=underscore --with-expecter
type CSVExporter interface {
	// Export streams the filtered events as CSV into w and returns the
	// number of rows written.
	Export(ctx context.Context, filter trapevent.Filter, w io.Writer) (int, error)
}

type csvExporter struct {
	logger *logrus.Logger
	repo   trapevent.Repository
}

func NewCSVExporter(logger *logrus.Logger, repo trapevent.Repository) CSVExporter {
	return &csvExporter{
		logger: logger,
		repo:   repo,
	}
}

func (e *csvExporter) Export(ctx context.Context, filter trapevent.Filter, w io.Writer) (int, error) {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	exported := 0
	for offset := 0; ; offset += exportBatchSize {
		events, err := e.repo.List(ctx, filter, offset, exportBatchSize)
		if err != nil {
			return exported, fmt.Errorf("failed to list events: %w", err)
		}

		for i := range events {
			if err := writer.Write(csvRow(&events[i])); err != nil {
				return exported, fmt.Errorf("failed to write csv row: %w", err)
			}
			exported++
		}

		if len(events) < exportBatchSize {
			break
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return exported, fmt.Errorf("failed to flush csv: %w", err)
	}

	e.logger.WithField("rows", exported).Debug("exported trap events to csv")
	return exported, nil
}

func csvRow(event *trapevent.TrapEvent) []string {
	elapsed := ""
	if event.ElapsedSeconds != nil {
		elapsed = strconv.FormatFloat(*event.ElapsedSeconds, 'f', -1, 64)
	}

	return []string{
		event.CreatedAt.Format(time.RFC3339),
		event.IPAddress,
		event.Path,
		event.Method,
		event.Username,
		event.PasswordMasked,
		strconv.FormatBool(event.HoneypotTriggered),
		event.TimingIssue,
		elapsed,
		strconv.Itoa(event.RiskScore),
		event.UserAgent,
		event.Referer,
	}
}
