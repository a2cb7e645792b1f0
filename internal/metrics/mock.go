package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	schedulerTicks     int
	tickFailures       int
	tickDurations      []float64
	remindersSent      int
	matchesStarted     int
	notifDelivered     map[string]int
	notifUndeliverable map[string]int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		tickDurations:      make([]float64, 0),
		notifDelivered:     make(map[string]int),
		notifUndeliverable: make(map[string]int),
	}
}

func (m *Mock) IncSchedulerTicks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedulerTicks++
}

func (m *Mock) IncTickFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickFailures++
}

func (m *Mock) ObserveTickDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickDurations = append(m.tickDurations, duration)
}

func (m *Mock) IncRemindersSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remindersSent++
}

func (m *Mock) IncMatchesStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesStarted++
}

func (m *Mock) IncNotifDelivered(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifDelivered[kind]++
}

func (m *Mock) IncNotifUndeliverable(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifUndeliverable[kind]++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SchedulerTicks returns the number of times IncSchedulerTicks was called.
func (m *Mock) SchedulerTicks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedulerTicks
}

// TickFailures returns the number of times IncTickFailures was called.
func (m *Mock) TickFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickFailures
}

// RemindersSent returns the number of times IncRemindersSent was called.
func (m *Mock) RemindersSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remindersSent
}

// MatchesStarted returns the number of times IncMatchesStarted was called.
func (m *Mock) MatchesStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesStarted
}

// NotifDelivered returns the delivered count for kind.
func (m *Mock) NotifDelivered(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifDelivered[kind]
}

// NotifUndeliverable returns the undeliverable count for kind.
func (m *Mock) NotifUndeliverable(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifUndeliverable[kind]
}
