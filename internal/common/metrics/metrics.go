// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SectionSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_section_submissions_total",
			Help: "Section submissions by action (create, update, skipped)",
		},
		[]string{"section", "action"},
	)

	SectionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_section_failures_total",
			Help: "Failed section submissions by error code",
		},
		[]string{"section", "error_code"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "onboarding_backend_request_duration_seconds",
			Help:    "Duration of backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"section", "method"},
	)

	ResumeSections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_resume_sections_total",
			Help: "Per-section outcome of session resume (restored, missing, failed)",
		},
		[]string{"section", "status"},
	)

	ActiveStep = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "onboarding_active_step",
			Help: "Index of the section currently being filled in",
		},
	)
)
