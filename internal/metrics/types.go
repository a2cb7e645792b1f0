package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	SchedulerTicks     prometheus.Counter
	TickFailures       prometheus.Counter
	TickDuration       prometheus.Histogram
	RemindersSent      prometheus.Counter
	MatchesStarted     prometheus.Counter
	NotifDelivered     *prometheus.CounterVec
	NotifUndeliverable *prometheus.CounterVec
	StartupTimeSeconds prometheus.Gauge
}
