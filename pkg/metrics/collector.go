// Package metrics exposes Prometheus collectors for the reservation wizard.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	wizardEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_events_total",
			Help: "Total number of wizard interactions labeled by event and status",
		},
		[]string{"event", "status"},
	)
	stepTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_step_transitions_total",
			Help: "Total number of wizard step transitions",
		},
		[]string{"category", "from", "to"},
	)
	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kenpo_gateway_request_duration_seconds",
			Help:    "Duration of booking gateway calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wizard_active_sessions",
			Help: "Current number of live wizard sessions",
		},
	)
)

// RecordWizardEvent counts one dispatched interaction.
func RecordWizardEvent(event, status string) {
	wizardEventsTotal.WithLabelValues(event, status).Inc()
}

// RecordStepTransition counts one step advance.
func RecordStepTransition(category, from, to string) {
	stepTransitionsTotal.WithLabelValues(category, from, to).Inc()
}

// ObserveGatewayRequest records the duration of one booking gateway call.
func ObserveGatewayRequest(operation string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	gatewayRequestDuration.WithLabelValues(operation, status).Observe(elapsed.Seconds())
}

// SessionCounter reports the number of live sessions.
type SessionCounter interface {
	Count(ctx context.Context) (int, error)
}

// SampleActiveSessions updates the active session gauge on an interval
// until ctx is canceled.
func SampleActiveSessions(ctx context.Context, counter SessionCounter, interval time.Duration, log *slog.Logger) {
	if counter == nil {
		return
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := counter.Count(ctx)
			if err != nil {
				log.Error("failed to sample active sessions", "error", err)
				continue
			}
			activeSessions.Set(float64(count))
		}
	}
}
