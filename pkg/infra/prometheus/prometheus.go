package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Common labels for all trap metrics
	profileLabels = []string{"profile"}

	// Persist latency buckets in milliseconds
	latencyBuckets = []float64{
		1, 2.5, 5, // In-memory and local postgres (1-5ms)
		10, 25, 50, // Normal writes (10-50ms)
		100, 250, 500, // Slow writes (100-500ms)
		1000, 2500, // Saturated pool / failover (1s-2.5s)
	}

	TrapEventsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_trap_events_total",
			Help: "Total number of trap events recorded",
		},
		append(profileLabels, "method"),
	)

	PageRendersTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_page_renders_total",
			Help: "Total number of decoy pages served",
		},
		profileLabels,
	)

	HoneypotTriggeredTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_honeypot_triggered_total",
			Help: "Total number of submissions that filled the hidden field",
		},
		profileLabels,
	)

	TimingAnomalyTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_timing_anomaly_total",
			Help: "Total number of submissions outside the timing thresholds",
		},
		append(profileLabels, "issue"),
	)

	RiskBandTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_risk_band_total",
			Help: "Trap events by computed risk band",
		},
		[]string{"band"},
	)

	PathHitsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_path_hits_total",
			Help: "Trap events by decoy path (high cardinality, off by default)",
		},
		[]string{"path"},
	)

	AlertsSentTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_alerts_sent_total",
			Help: "Alerts delivered per channel",
		},
		[]string{"channel"},
	)

	AlertFailuresTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_alert_failures_total",
			Help: "Alert deliveries that failed per channel",
		},
		[]string{"channel"},
	)

	EventPersistLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "honeygate_event_persist_latency_ms",
			Help:    "Trap event persist latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"outcome"},
	)

	StreamClients = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "honeygate_stream_clients",
			Help: "Connected live feed websocket clients",
		},
	)

	AdminAuthRejectsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeygate_admin_auth_rejects_total",
			Help: "Admin API requests rejected before reaching a handler",
		},
		[]string{"reason"},
	)
)

type MetricsConfig struct {
	EnableLatency bool // Persist latency histogram
	EnablePerPath bool // Per-path counters (high cardinality)
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency: true,  // Basic latency is usually safe
		EnablePerPath: false, // Disabled by default (high cardinality)
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
