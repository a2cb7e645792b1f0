package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSchedulerTicks()
	IncTickFailures()
	ObserveTickDuration(duration float64)
	IncRemindersSent()
	IncMatchesStarted()
	IncNotifDelivered(kind string)
	IncNotifUndeliverable(kind string)
	SetStartupTime(duration float64)
}
