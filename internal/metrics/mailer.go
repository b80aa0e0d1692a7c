package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// dispatchesTotal counts dispatch invocations.
	// Labels:
	// - outcome: "completed" (batches ran, log persisted) or the terminal
	//   error code of the stage that rejected the dispatch.
	dispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mailer",
			Subsystem: "dispatch",
			Name:      "total",
			Help:      "Number of dispatch invocations by outcome",
		},
		[]string{"outcome"},
	)

	// emailsTotal counts per-recipient send results.
	// Labels:
	// - status: "sent" or "failed"
	emailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mailer",
			Subsystem: "dispatch",
			Name:      "emails_total",
			Help:      "Number of individual recipient sends by status",
		},
		[]string{"status"},
	)

	// dispatchDuration tracks end-to-end dispatch duration, batches included.
	dispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mailer",
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Duration of a full dispatch invocation",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// authOutcomes counts sign-in attempts.
	authOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mailer",
			Subsystem: "auth",
			Name:      "sign_in_total",
			Help:      "Number of sign-in attempts by outcome",
		},
		[]string{"outcome"},
	)

	// rateLimitExceeded counts HTTP 429 events from the rate limit middleware.
	rateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mailer",
			Subsystem: "http",
			Name:      "rate_limit_exceeded_total",
			Help:      "Number of requests rejected due to rate limiting (HTTP 429)",
		},
		[]string{"endpoint", "source"},
	)
)

// IncDispatch increments the dispatch counter for the given outcome.
func IncDispatch(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	dispatchesTotal.WithLabelValues(outcome).Inc()
}

// AddEmails records n per-recipient results with the given status.
func AddEmails(status string, n int) {
	if n <= 0 {
		return
	}
	emailsTotal.WithLabelValues(status).Add(float64(n))
}

// ObserveDispatchDuration records one dispatch duration in seconds.
func ObserveDispatchDuration(seconds float64) {
	dispatchDuration.Observe(seconds)
}

// IncAuthOutcome increments the sign-in counter.
func IncAuthOutcome(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	authOutcomes.WithLabelValues(outcome).Inc()
}

// IncRateLimitExceeded increments the 429 counter for the given endpoint and source.
func IncRateLimitExceeded(endpoint, source string) {
	if endpoint == "" {
		endpoint = "unknown"
	}
	if source == "" {
		source = "unknown"
	}
	rateLimitExceeded.WithLabelValues(endpoint, source).Inc()
}
