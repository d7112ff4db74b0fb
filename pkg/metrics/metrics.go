package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Dispatch engine metrics
	AttemptsSent    *prometheus.CounterVec
	AttemptsFailed  *prometheus.CounterVec
	UsersSkipped    prometheus.Counter
	DispatchRuns    prometheus.Counter
	AttemptDuration *prometheus.HistogramVec

	// Scheduler metrics
	ScanRuns     *prometheus.CounterVec
	ScanFailures *prometheus.CounterVec

	// Store metrics
	DatabaseOperations *prometheus.CounterVec
}

// New registers the application metric set with the default registry.
func New(namespace string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, namespace)
}

// NewWith registers the application metric set with the given registerer.
func NewWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AttemptsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_attempts_sent_total",
			Help:      "Notification attempts that completed with status SENT",
		}, []string{"channel"}),
		AttemptsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_attempts_failed_total",
			Help:      "Notification attempts that completed with status FAILED",
		}, []string{"channel"}),
		UsersSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_users_skipped_total",
			Help:      "Target users that produced no attempt on any channel",
		}),
		DispatchRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_runs_total",
			Help:      "Completed dispatch passes",
		}),
		AttemptDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_attempt_duration_seconds",
			Help:      "Time spent in a single channel send",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"channel"}),
		ScanRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_scan_runs_total",
			Help:      "Completed scheduler scan passes",
		}, []string{"scan"}),
		ScanFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_scan_failures_total",
			Help:      "Scan passes that failed at the top level",
		}, []string{"scan"}),
		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Database operations by name and result",
		}, []string{"operation", "status"}),
	}
}
