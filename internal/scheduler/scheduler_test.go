package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/config"
	"github.com/mauv0809/duel-keeper/internal/metrics"
	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

type fixture struct {
	store    tournament.Store
	clock    *clock.Mock
	notifier *notifier.Mock
	metrics  *metrics.Mock
	sched    *Scheduler
}

func setup(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewMock(epoch)
	backend, err := tournament.Open(config.Config{DataDir: t.TempDir(), StoreBackend: config.BackendJSON}, clk)
	require.NoError(t, err)
	t.Cleanup(backend.Close)

	ctx := context.Background()
	_, err = backend.Store.RegisterPlayer(ctx, 1, "Alice", 99)
	require.NoError(t, err)
	_, err = backend.Store.RegisterPlayer(ctx, 2, "Bob", 99)
	require.NoError(t, err)

	f := &fixture{
		store:    backend.Store,
		clock:    clk,
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
	}
	f.sched = New(f.store, f.notifier, f.metrics, clk, Options{Server: "play.example.org:27015"})
	return f
}

func (f *fixture) schedule(t *testing.T, at time.Time) tournament.Match {
	t.Helper()
	m, err := f.store.ScheduleMatch(context.Background(), 1, 2, at, 99)
	require.NoError(t, err)
	return m
}

func (f *fixture) tickAt(at time.Time) TickReport {
	f.clock.Set(at)
	return f.sched.Tick(context.Background())
}

func TestWindow_DerivedFromInterval(t *testing.T) {
	s := New(nil, nil, metrics.NewMock(), clock.NewMock(epoch), Options{})
	from, to := s.Window()
	assert.Equal(t, 4*time.Minute+30*time.Second, from)
	assert.Equal(t, 5*time.Minute+30*time.Second, to)

	s = New(nil, nil, metrics.NewMock(), clock.NewMock(epoch), Options{Interval: 10 * time.Second, Lead: 2 * time.Minute})
	from, to = s.Window()
	assert.Equal(t, 110*time.Second, from)
	assert.Equal(t, 130*time.Second, to)
}

func TestTick_OneReminderPerParticipant(t *testing.T) {
	f := setup(t)
	start := epoch.Add(10 * time.Minute)
	m := f.schedule(t, start)

	first := f.tickAt(start.Add(-5*time.Minute - 10*time.Second))
	f.tickAt(start.Add(-5 * time.Minute))
	f.tickAt(start.Add(-4*time.Minute - 50*time.Second))

	assert.Equal(t, []string{m.ID}, first.Reminded)
	reminders := f.notifier.CallsOfKind(notifier.KindReminder)
	require.Len(t, reminders, 2)
	assert.ElementsMatch(t, []int64{1, 2}, []int64{reminders[0].Recipient, reminders[1].Recipient})
	assert.Equal(t, "play.example.org:27015", reminders[0].Server)
	assert.Equal(t, 1, f.metrics.RemindersSent())
	assert.Equal(t, 2, f.metrics.NotifDelivered(string(notifier.KindReminder)))

	stored, _, err := f.store.GetMatch(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, stored.ReminderSent, "reminder flag is persisted")
	assert.True(t, f.sched.Notified(m.ID))
}

func TestTick_OutsideWindow(t *testing.T) {
	f := setup(t)
	start := epoch.Add(10 * time.Minute)
	f.schedule(t, start)

	f.tickAt(start.Add(-6 * time.Minute))
	f.tickAt(start.Add(-5*time.Minute - 31*time.Second))
	assert.Empty(t, f.notifier.Calls())

	f.tickAt(start.Add(-4*time.Minute - 29*time.Second))
	assert.Empty(t, f.notifier.Calls(), "a reminder missed by the window is not sent late")
}

func TestTick_StartsMatchOnce(t *testing.T) {
	f := setup(t)
	start := epoch.Add(10 * time.Minute)
	m := f.schedule(t, start)

	f.tickAt(start.Add(-5 * time.Minute))
	report := f.tickAt(start.Add(time.Second))
	assert.Equal(t, []string{m.ID}, report.Started)

	again := f.tickAt(start.Add(31 * time.Second))
	assert.Empty(t, again.Started)

	stored, _, err := f.store.GetMatch(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.StatusInProgress, stored.Status)
	assert.Equal(t, 1, f.metrics.MatchesStarted())
	assert.Len(t, f.notifier.CallsOfKind(notifier.KindImmediateStart), 2)
	assert.Len(t, f.notifier.CallsOfKind(notifier.KindReminder), 2)
	assert.False(t, f.sched.Notified(m.ID), "started matches leave the notified set")
}

func TestTick_StartsAtExactTime(t *testing.T) {
	f := setup(t)
	start := epoch.Add(10 * time.Minute)
	m := f.schedule(t, start)

	report := f.tickAt(start)
	assert.Equal(t, []string{m.ID}, report.Started)
}

func TestTick_LateStartSkipsNotification(t *testing.T) {
	f := setup(t)
	start := epoch.Add(10 * time.Minute)
	m := f.schedule(t, start)

	report := f.tickAt(start.Add(2 * time.Hour))
	assert.Equal(t, []string{m.ID}, report.Started)
	assert.Empty(t, f.notifier.CallsOfKind(notifier.KindImmediateStart))
}

func TestTick_PersistedFlagSurvivesRestart(t *testing.T) {
	f := setup(t)
	start := epoch.Add(10 * time.Minute)
	f.schedule(t, start)

	f.tickAt(start.Add(-5 * time.Minute))
	require.Len(t, f.notifier.Calls(), 2)

	restarted := New(f.store, f.notifier, f.metrics, f.clock, Options{})
	f.clock.Set(start.Add(-4*time.Minute - 45*time.Second))
	report := restarted.Tick(context.Background())

	assert.Empty(t, report.Reminded)
	assert.Len(t, f.notifier.Calls(), 2, "no reminder is re-sent after a restart")
}

func TestTick_InMemorySetGuardsFailedPersist(t *testing.T) {
	start := epoch.Add(10 * time.Minute)
	match := tournament.Match{ID: "1_2_x", Player1ID: 1, Player2ID: 2, ScheduledTime: start, Status: tournament.StatusScheduled}

	store := tournament.NewMock()
	store.UpcomingMatchesFunc = func(context.Context, time.Time) ([]tournament.Match, error) {
		return []tournament.Match{match}, nil
	}
	store.ListMatchesFunc = func(context.Context) ([]tournament.Match, error) {
		return []tournament.Match{match}, nil
	}
	store.MarkReminderSentFunc = func(context.Context, string) error {
		return errors.New("disk full")
	}
	n := notifier.NewMock()
	m := metrics.NewMock()
	clk := clock.NewMock(start.Add(-5 * time.Minute))
	s := New(store, n, m, clk, Options{})

	first := s.Tick(context.Background())
	clk.Advance(30 * time.Second)
	second := s.Tick(context.Background())

	assert.Equal(t, 1, first.Errors)
	assert.Zero(t, second.Errors)
	assert.Len(t, n.Calls(), 2)
	assert.Len(t, store.GetMarkReminderSentCalls(), 1)
	assert.Equal(t, 1, m.TickFailures())
}

func TestTick_StoreFailureIsContained(t *testing.T) {
	store := tournament.NewMock()
	failing := true
	store.UpcomingMatchesFunc = func(context.Context, time.Time) ([]tournament.Match, error) {
		if failing {
			return nil, errors.New("i/o error")
		}
		return nil, nil
	}
	store.ListMatchesFunc = func(context.Context) ([]tournament.Match, error) {
		return nil, errors.New("i/o error")
	}
	m := metrics.NewMock()
	s := New(store, notifier.NewMock(), m, clock.NewMock(epoch), Options{})

	report := s.Tick(context.Background())
	assert.Equal(t, 2, report.Errors)
	assert.Equal(t, 1, m.TickFailures())

	failing = false
	store.ListMatchesFunc = nil
	report = s.Tick(context.Background())
	assert.Zero(t, report.Errors)
	assert.Equal(t, 2, m.SchedulerTicks())
}

func TestTick_StatusUpdateFailure(t *testing.T) {
	start := epoch.Add(-time.Second)
	match := tournament.Match{ID: "1_2_x", Player1ID: 1, Player2ID: 2, ScheduledTime: start, Status: tournament.StatusScheduled}

	store := tournament.NewMock()
	store.ListMatchesFunc = func(context.Context) ([]tournament.Match, error) {
		return []tournament.Match{match}, nil
	}
	store.SetMatchStatusFunc = func(context.Context, string, tournament.Status) (tournament.Match, error) {
		return tournament.Match{}, errors.New("write failed")
	}
	n := notifier.NewMock()
	s := New(store, n, metrics.NewMock(), clock.NewMock(epoch), Options{})

	report := s.Tick(context.Background())
	assert.Equal(t, 1, report.Errors)
	assert.Empty(t, report.Started)
	assert.Empty(t, n.Calls(), "no start notice for a match that did not start")
}

func TestTick_PanicIsContained(t *testing.T) {
	store := tournament.NewMock()
	store.UpcomingMatchesFunc = func(context.Context, time.Time) ([]tournament.Match, error) {
		panic("boom")
	}
	s := New(store, notifier.NewMock(), metrics.NewMock(), clock.NewMock(epoch), Options{})

	var report TickReport
	require.NotPanics(t, func() { report = s.Tick(context.Background()) })
	assert.Equal(t, 1, report.Errors)
}

func TestTick_UndeliverableIsTolerated(t *testing.T) {
	f := setup(t)
	f.notifier.NotifyFunc = func(ctx context.Context, intent notifier.Intent) (notifier.Result, error) {
		if intent.Recipient == 2 {
			return notifier.Undeliverable, nil
		}
		return notifier.Delivered, nil
	}
	start := epoch.Add(10 * time.Minute)
	m := f.schedule(t, start)

	report := f.tickAt(start.Add(-5 * time.Minute))
	f.tickAt(start.Add(-4*time.Minute - 30*time.Second))

	assert.Equal(t, []string{m.ID}, report.Reminded)
	assert.Zero(t, report.Errors)
	assert.Len(t, f.notifier.Calls(), 2, "undeliverable recipients are not retried")
	assert.Equal(t, 1, f.metrics.NotifDelivered(string(notifier.KindReminder)))
	assert.Equal(t, 1, f.metrics.NotifUndeliverable(string(notifier.KindReminder)))
}

func TestNotifyCancellation(t *testing.T) {
	f := setup(t)
	start := epoch.Add(10 * time.Minute)
	m := f.schedule(t, start)
	f.tickAt(start.Add(-5 * time.Minute))
	require.True(t, f.sched.Notified(m.ID))

	cancelled, err := f.store.CancelMatch(context.Background(), m.ID)
	require.NoError(t, err)

	delivered := f.sched.NotifyCancellation(context.Background(), cancelled)
	assert.Equal(t, 2, delivered)
	notices := f.notifier.CallsOfKind(notifier.KindCancellation)
	require.Len(t, notices, 2)
	assert.Equal(t, tournament.StatusCancelled, notices[0].Match.Status)
	assert.False(t, f.sched.Notified(m.ID))
}

func TestCleanup(t *testing.T) {
	f := setup(t)
	soon := f.schedule(t, epoch.Add(10*time.Minute))
	f.tickAt(epoch.Add(5 * time.Minute))
	require.True(t, f.sched.Notified(soon.ID))

	// Still tracked while the match exists and started less than an hour ago.
	f.clock.Set(epoch.Add(30 * time.Minute))
	assert.Zero(t, f.sched.Cleanup(context.Background()))

	// Match records can disappear without a cancellation notice, e.g. a manual edit.
	later := f.schedule(t, epoch.Add(2*time.Hour))
	f.tickAt(epoch.Add(2*time.Hour - 5*time.Minute))
	require.True(t, f.sched.Notified(later.ID))
	_, err := f.store.CancelMatch(context.Background(), later.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.sched.Cleanup(context.Background()))
	assert.False(t, f.sched.Notified(later.ID))
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := tournament.NewMock()
	m := metrics.NewMock()
	s := New(store, notifier.NewMock(), m, clock.NewMock(epoch), Options{Interval: 5 * time.Millisecond, Lead: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.SchedulerTicks() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
