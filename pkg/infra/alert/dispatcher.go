package alert

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/domain/alert"
	"github.com/honeyguard/honeygate/pkg/domain/export"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	"github.com/honeyguard/honeygate/pkg/infra/prometheus"
)

// Dispatcher fans recorded events out to alert channels and exporters off
// the request path. Tasks are dropped, not queued unbounded, when the trap
// is under load; losing an alert beats stalling the decoy response.
//
//go:generate mockery --name=Dispatcher --dir=. --output=./mocks --filename=dispatcher_mock.go --case=underscore --with-expecter
type Dispatcher interface {
	StartWorkers(n int)
	Shutdown()
	Dispatch(event *trapevent.TrapEvent)
}

type dispatcher struct {
	logger        *logrus.Logger
	channels      []alert.Channel
	exporters     []export.Exporter
	subjectPrefix string
	failSilently  bool
	taskChan      chan func()
	ctx           context.Context
	cancel        context.CancelFunc
	closed        atomic.Bool
}

func NewDispatcher(
	logger *logrus.Logger,
	cfg config.AlertsConfig,
	channels []alert.Channel,
	exporters []export.Exporter,
) Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &dispatcher{
		logger:        logger,
		channels:      channels,
		exporters:     exporters,
		subjectPrefix: cfg.SubjectPrefix,
		failSilently:  cfg.FailSilently,
		taskChan:      make(chan func(), 1000),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (d *dispatcher) StartWorkers(n int) {
	d.logger.WithField("workers", n).Info("starting alert workers")
	for i := 0; i < n; i++ {
		go func() {
			for {
				select {
				case task, ok := <-d.taskChan:
					if !ok {
						return
					}
					task()
				case <-d.ctx.Done():
					return
				}
			}
		}()
	}
}

func (d *dispatcher) Shutdown() {
	d.closed.Store(true)
	d.logger.Info("shutting down alert workers")
	d.cancel()
	close(d.taskChan)
	for _, channel := range d.channels {
		channel.Close()
	}
	for _, exporter := range d.exporters {
		exporter.Close()
	}
	d.logger.Info("alert workers stopped")
}

func (d *dispatcher) Dispatch(event *trapevent.TrapEvent) {
	d.enqueueTask(func() {
		d.sendToChannels(event)
	}, event)

	if len(d.exporters) > 0 {
		d.enqueueTask(func() {
			d.sendToExporters(event)
		}, event)
	}
}

func (d *dispatcher) sendToChannels(event *trapevent.TrapEvent) {
	if len(d.channels) == 0 {
		return
	}

	msg := BuildMessage(d.subjectPrefix, event)
	for _, channel := range d.channels {
		ctx, cancel := context.WithTimeout(d.ctx, 30*time.Second)
		err := channel.Send(ctx, msg)
		cancel()
		if err != nil {
			prometheus.AlertFailuresTotal.WithLabelValues(channel.Name()).Inc()
			entry := d.logger.WithFields(logrus.Fields{
				"channel":    channel.Name(),
				"event_id":   event.ID,
				"ip_address": event.IPAddress,
			}).WithError(err)
			if d.failSilently {
				entry.Warn("alert delivery failed")
			} else {
				entry.Error("alert delivery failed")
			}
			continue
		}
		prometheus.AlertsSentTotal.WithLabelValues(channel.Name()).Inc()
	}
}

func (d *dispatcher) sendToExporters(event *trapevent.TrapEvent) {
	for _, exporter := range d.exporters {
		ctx, cancel := context.WithTimeout(d.ctx, 30*time.Second)
		err := exporter.Handle(ctx, event)
		cancel()
		if err != nil {
			d.logger.WithFields(logrus.Fields{
				"exporter": exporter.Name(),
				"event_id": event.ID,
			}).WithError(err).Error("exporter failed")
		}
	}
}

func (d *dispatcher) enqueueTask(task func(), event *trapevent.TrapEvent) {
	if d.closed.Load() {
		return
	}
	select {
	case d.taskChan <- task:
	default:
		d.logger.WithField("event_id", event.ID).
			Warn("taskChan is full, dropping alert task")
	}
}
