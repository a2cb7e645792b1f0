package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncSchedulerTicks()
	s.IncSchedulerTicks()
	s.IncTickFailures()
	s.IncRemindersSent()
	s.IncMatchesStarted()
	s.IncNotifDelivered("reminder")
	s.IncNotifDelivered("reminder")
	s.IncNotifUndeliverable("cancellation")
	s.ObserveTickDuration(0.02)
	s.SetStartupTime(1.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.SchedulerTicks))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.TickFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RemindersSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesStarted))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.NotifDelivered.WithLabelValues("reminder")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.NotifUndeliverable.WithLabelValues("cancellation")))
	assert.Equal(t, 1.5, testutil.ToFloat64(s.StartupTimeSeconds))
}

func TestMetricsHandler_ExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncRemindersSent()

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "duel_reminders_sent_total 1")
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()
	m.IncNotifDelivered("reminder")
	m.IncNotifUndeliverable("reminder")
	m.IncNotifUndeliverable("reminder")

	assert.Equal(t, 1, m.NotifDelivered("reminder"))
	assert.Equal(t, 2, m.NotifUndeliverable("reminder"))
	assert.Zero(t, m.NotifDelivered("cancellation"))
}
