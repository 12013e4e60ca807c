package event

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/decoy"
	"github.com/honeyguard/honeygate/pkg/detect"
	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	"github.com/honeyguard/honeygate/pkg/infra/alert"
	infraCache "github.com/honeyguard/honeygate/pkg/infra/cache"
	"github.com/honeyguard/honeygate/pkg/infra/cache/channel"
	cacheEvent "github.com/honeyguard/honeygate/pkg/infra/cache/event"
	"github.com/honeyguard/honeygate/pkg/infra/database/types"
	"github.com/honeyguard/honeygate/pkg/infra/fingerprint"
	"github.com/honeyguard/honeygate/pkg/infra/prometheus"
)

//go:generate mockery --name=Recorder --dir=. --output=./mocks --filename=recorder_mock.go --case=underscore --with-expecter
type Recorder interface {
	// Record runs the detector chain over a captured submission, persists
	// the resulting event, and fans it out to alerting and the live feed.
	Record(ctx context.Context, capture *decoy.Capture) (*trapevent.TrapEvent, error)
	// RecordPageView records a GET against a decoy surface. Returns
	// (nil, nil) when page view detection is disabled.
	RecordPageView(ctx context.Context, capture *decoy.Capture) (*trapevent.TrapEvent, error)
}

type recorder struct {
	logger     *logrus.Logger
	repo       trapevent.Repository
	chain      *detect.Chain
	tracker    fingerprint.Tracker
	dispatcher alert.Dispatcher
	publisher  infraCache.EventPublisher
	activity   *PathActivity
	cfg        config.DetectionConfig
}

func NewRecorder(
	logger *logrus.Logger,
	repo trapevent.Repository,
	chain *detect.Chain,
	tracker fingerprint.Tracker,
	dispatcher alert.Dispatcher,
	publisher infraCache.EventPublisher,
	activity *PathActivity,
	cfg config.DetectionConfig,
) Recorder {
	return &recorder{
		logger:     logger,
		repo:       repo,
		chain:      chain,
		tracker:    tracker,
		dispatcher: dispatcher,
		publisher:  publisher,
		activity:   activity,
		cfg:        cfg,
	}
}

func (r *recorder) Record(ctx context.Context, capture *decoy.Capture) (*trapevent.TrapEvent, error) {
	return r.record(ctx, capture)
}

func (r *recorder) RecordPageView(ctx context.Context, capture *decoy.Capture) (*trapevent.TrapEvent, error) {
	if !r.cfg.GetDetection {
		return nil, nil
	}
	return r.record(ctx, capture)
}

func (r *recorder) record(ctx context.Context, capture *decoy.Capture) (*trapevent.TrapEvent, error) {
	assessment := r.chain.Assess(ctx, capture)

	r.trackSource(ctx, capture, assessment)

	event := r.buildEvent(capture, assessment)
	event.Recalculate()

	if err := r.persist(ctx, event); err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"ip_address": event.IPAddress,
			"path":       event.Path,
		}).Error("failed to persist trap event")
		return nil, fmt.Errorf("failed to persist trap event: %w", err)
	}

	r.observe(event)
	r.logEvent(event)

	r.dispatcher.Dispatch(event)

	// The live feed is served by the admin replicas; the event travels there
	// over redis. Losing the publish costs one feed entry, not the record.
	if err := r.publisher.Publish(ctx, channel.TrapEventsChannel, cacheEvent.TrapEventRecordedEvent{Event: *event}); err != nil {
		r.logger.WithError(err).Warn("failed to publish trap event")
	}

	return event, nil
}

// trackSource feeds the source fingerprint into the sliding-window counters.
// Tracking never blocks recording: a redis failure costs the repeat_offender
// flag, nothing else.
func (r *recorder) trackSource(ctx context.Context, capture *decoy.Capture, assessment *detect.Assessment) {
	triggered := assessment.HoneypotTriggered || assessment.TimingIssue == trapevent.TimingTooFast

	activity, err := r.tracker.Track(ctx, fingerprint.New(capture.IPAddress, capture.UserAgent), triggered)
	if err != nil {
		r.logger.WithError(err).Warn("failed to track source fingerprint")
		return
	}
	if activity.RepeatOffender {
		assessment.Flag(trapevent.FlagRepeatOffender)
	}
}

func (r *recorder) buildEvent(capture *decoy.Capture, assessment *detect.Assessment) *trapevent.TrapEvent {
	return &trapevent.TrapEvent{
		IPAddress:         capture.IPAddress,
		Path:              capture.Path,
		Method:            capture.Method,
		Profile:           capture.Profile,
		Username:          capture.Username,
		PasswordMasked:    trapevent.MaskPassword(capture.Password),
		UserAgent:         capture.UserAgent,
		Referer:           capture.Referer,
		AcceptLanguage:    capture.AcceptLanguage,
		AcceptEncoding:    capture.AcceptEncoding,
		HoneypotTriggered: assessment.HoneypotTriggered,
		TimingIssue:       assessment.TimingIssue,
		ElapsedSeconds:    assessment.ElapsedSeconds,
		Flags:             types.StringArray(assessment.Flags),
		Device:            assessment.Device,
		OSName:            assessment.OSName,
		Browser:           assessment.Browser,
		Metadata:          capture.Metadata,
	}
}

func (r *recorder) persist(ctx context.Context, event *trapevent.TrapEvent) error {
	start := time.Now()
	err := r.repo.Save(ctx, event)

	if prometheus.Config.EnableLatency {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		elapsed := float64(time.Since(start).Milliseconds())
		prometheus.EventPersistLatency.WithLabelValues(outcome).Observe(elapsed)
	}

	return err
}

func (r *recorder) observe(event *trapevent.TrapEvent) {
	r.activity.Bump(event.Path)

	prometheus.TrapEventsTotal.WithLabelValues(event.Profile, event.Method).Inc()
	prometheus.RiskBandTotal.WithLabelValues(event.RiskBand()).Inc()

	if event.HoneypotTriggered {
		prometheus.HoneypotTriggeredTotal.WithLabelValues(event.Profile).Inc()
	}
	if event.TimingIssue != trapevent.TimingValid {
		prometheus.TimingAnomalyTotal.WithLabelValues(event.Profile, event.TimingIssue).Inc()
	}
	if prometheus.Config.EnablePerPath {
		prometheus.PathHitsTotal.WithLabelValues(event.Path).Inc()
	}
}

// logEvent writes the console line for one recorded event. The field set
// mirrors what goes into email alerts so the log alone can reconstruct an
// incident.
func (r *recorder) logEvent(event *trapevent.TrapEvent) {
	elapsed := 0.0
	if event.ElapsedSeconds != nil {
		elapsed = *event.ElapsedSeconds
	}

	r.logger.WithFields(logrus.Fields{
		"ip_address":         event.IPAddress,
		"path":               event.Path,
		"method":             event.Method,
		"profile":            event.Profile,
		"created_at":         event.CreatedAt.Format(time.RFC3339),
		"username":           event.Username,
		"password":           event.PasswordMasked,
		"user_agent":         event.UserAgent,
		"referer":            event.Referer,
		"accept_language":    event.AcceptLanguage,
		"accept_encoding":    event.AcceptEncoding,
		"elapsed_time":       elapsed,
		"timing_issue":       event.TimingIssue,
		"honeypot_triggered": event.HoneypotTriggered,
		"risk_score":         event.RiskScore,
		"flags":              event.Flags,
		"metadata":           event.Metadata,
	}).Warn("trap event recorded")
}
