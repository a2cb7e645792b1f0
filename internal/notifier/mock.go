package notifier

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	NotifyFunc func(ctx context.Context, intent Intent) (Result, error)

	// Call records
	NotifyCalls []Intent
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifyCalls = nil
}

// Notify records the intent and reports it delivered unless NotifyFunc is set.
func (m *Mock) Notify(ctx context.Context, intent Intent) (Result, error) {
	m.mu.Lock()
	m.NotifyCalls = append(m.NotifyCalls, intent)
	fn := m.NotifyFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, intent)
	}
	return Delivered, nil
}

// Calls returns a copy of the recorded intents.
func (m *Mock) Calls() []Intent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Intent(nil), m.NotifyCalls...)
}

// CallsOfKind returns the recorded intents of the given kind.
func (m *Mock) CallsOfKind(kind Kind) []Intent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Intent
	for _, c := range m.NotifyCalls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
