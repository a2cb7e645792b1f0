package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SchedulerTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_scheduler_ticks_total",
			Help: "The total number of scheduler ticks.",
		}),
		TickFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_scheduler_tick_failures_total",
			Help: "The total number of scheduler ticks that hit an error.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "duel_scheduler_tick_duration_seconds",
			Help:    "The duration of a scheduler tick.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_reminders_sent_total",
			Help: "The total number of matches a reminder was dispatched for.",
		}),
		MatchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duel_matches_started_total",
			Help: "The total number of matches moved to in_progress.",
		}),
		NotifDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duel_notifications_delivered_total",
			Help: "The total number of notifications delivered, by kind.",
		}, []string{"kind"}),
		NotifUndeliverable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duel_notifications_undeliverable_total",
			Help: "The total number of notifications that could not be delivered, by kind.",
		}, []string{"kind"}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "duel_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SchedulerTicks,
		s.TickFailures,
		s.TickDuration,
		s.RemindersSent,
		s.MatchesStarted,
		s.NotifDelivered,
		s.NotifUndeliverable,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSchedulerTicks() {
	s.SchedulerTicks.Inc()
}

func (s *Service) IncTickFailures() {
	s.TickFailures.Inc()
}

func (s *Service) ObserveTickDuration(duration float64) {
	s.TickDuration.Observe(duration)
}

func (s *Service) IncRemindersSent() {
	s.RemindersSent.Inc()
}

func (s *Service) IncMatchesStarted() {
	s.MatchesStarted.Inc()
}

func (s *Service) IncNotifDelivered(kind string) {
	s.NotifDelivered.WithLabelValues(kind).Inc()
}

func (s *Service) IncNotifUndeliverable(kind string) {
	s.NotifUndeliverable.WithLabelValues(kind).Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
