package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// alert service.
type Metrics struct {
	AlertsDispatched  prometheus.Counter
	DispatchFailures  prometheus.Counter
	DispatchDuration  prometheus.Histogram
	RecipientsReached prometheus.Histogram

	// Notifications counts individual channel send attempts.
	Notifications *prometheus.CounterVec // labels: channel={sms,whatsapp}, outcome={success,error}

	PredictionsCreated  prometheus.Counter
	PredictionRiskScore prometheus.Histogram

	GatewayRequestDuration *prometheus.HistogramVec // labels: channel={sms,whatsapp}
	GatewayStubMode        prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AlertsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aegisflood",
			Name:      "alerts_dispatched_total",
			Help:      "Total alerts successfully persisted and fanned out.",
		}),
		DispatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aegisflood",
			Name:      "dispatch_failures_total",
			Help:      "Total dispatches rejected or rolled back.",
		}),
		DispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aegisflood",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of a complete alert dispatch including fan-out.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RecipientsReached: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aegisflood",
			Name:      "recipients_reached",
			Help:      "Distinct recipients reached per dispatch (OR across channels).",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aegisflood",
			Name:      "notifications_total",
			Help:      "Channel send attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
		PredictionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aegisflood",
			Name:      "predictions_created_total",
			Help:      "Total risk assessments produced and persisted.",
		}),
		PredictionRiskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aegisflood",
			Name:      "prediction_risk_score",
			Help:      "Distribution of produced risk scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90},
		}),
		GatewayRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aegisflood",
			Name:      "gateway_request_duration_seconds",
			Help:      "Notification gateway request duration by channel.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"channel"}),
		GatewayStubMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aegisflood",
			Name:      "gateway_stub_mode",
			Help:      "1 when the gateway client is in log-only stub mode.",
		}),
	}

	prometheus.MustRegister(
		m.AlertsDispatched,
		m.DispatchFailures,
		m.DispatchDuration,
		m.RecipientsReached,
		m.Notifications,
		m.PredictionsCreated,
		m.PredictionRiskScore,
		m.GatewayRequestDuration,
		m.GatewayStubMode,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AlertsDispatched:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aegisflood", Name: "alerts_dispatched_total"}),
		DispatchFailures:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aegisflood", Name: "dispatch_failures_total"}),
		DispatchDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aegisflood", Name: "dispatch_duration_seconds"}),
		RecipientsReached:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aegisflood", Name: "recipients_reached"}),
		Notifications:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aegisflood", Name: "notifications_total"}, []string{"channel", "outcome"}),
		PredictionsCreated:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aegisflood", Name: "predictions_created_total"}),
		PredictionRiskScore:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aegisflood", Name: "prediction_risk_score"}),
		GatewayRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "aegisflood", Name: "gateway_request_duration_seconds"}, []string{"channel"}),
		GatewayStubMode:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aegisflood", Name: "gateway_stub_mode"}),
	}
}
