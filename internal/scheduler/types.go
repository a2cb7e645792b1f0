package scheduler

import (
	"sync"
	"time"

	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/metrics"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultLead     = 5 * time.Minute
	// notifiedRetention is how long past its start a match stays in the notified set.
	notifiedRetention = time.Hour
)

// Options tune the scheduler.
type Options struct {
	// Interval is the time between ticks. It is also the half-width of the
	// reminder window around Lead.
	Interval time.Duration
	// Lead is how long before a match its reminder is due.
	Lead time.Duration
	// Server is the game server address included in notifications.
	Server string
}

// Scheduler drives matches through their reminder and start transitions.
type Scheduler struct {
	store    Store
	notifier Notifier
	metrics  metrics.Metrics
	clock    clock.Clock
	opts     Options

	mu sync.Mutex
	// notified holds ids of matches reminded during this process lifetime,
	// mapped to their start time.
	notified map[string]time.Time
}

// TickReport summarises the work done by one tick.
type TickReport struct {
	At       time.Time `json:"at"`
	Reminded []string  `json:"reminded"`
	Started  []string  `json:"started"`
	Errors   int       `json:"errors"`
}
