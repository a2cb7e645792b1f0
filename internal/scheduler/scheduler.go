package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/metrics"
	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

// New creates a new Scheduler. Zero options fall back to the defaults.
func New(store Store, n Notifier, metrics metrics.Metrics, clk clock.Clock, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Lead <= 0 {
		opts.Lead = DefaultLead
	}
	return &Scheduler{
		store:    store,
		notifier: n,
		metrics:  metrics,
		clock:    clk,
		opts:     opts,
		notified: make(map[string]time.Time),
	}
}

// Window returns the range of time-until-start in which a reminder is sent.
func (s *Scheduler) Window() (from, to time.Duration) {
	return s.opts.Lead - s.opts.Interval, s.opts.Lead + s.opts.Interval
}

func (s *Scheduler) inWindow(until time.Duration) bool {
	from, to := s.Window()
	return until >= from && until <= to
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	from, to := s.Window()
	log.Info("Scheduler started", "interval", s.opts.Interval, "windowFrom", from, "windowTo", to)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one pass over the matches: reminders for matches entering
// the reminder window, then the start transition for matches whose time has
// come. Errors are logged and counted; the next tick starts from fresh state.
func (s *Scheduler) Tick(ctx context.Context) (report TickReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	now := s.clock.Now()
	report.At = now
	s.metrics.IncSchedulerTicks()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Scheduler tick panicked", "panic", r)
			report.Errors++
		}
		if report.Errors > 0 {
			s.metrics.IncTickFailures()
		}
		s.metrics.ObserveTickDuration(time.Since(started).Seconds())
	}()

	s.sendReminders(ctx, now, &report)
	s.startDueMatches(ctx, now, &report)
	s.cleanup(ctx, now)

	if len(report.Reminded) > 0 || len(report.Started) > 0 || report.Errors > 0 {
		log.Info("Scheduler tick finished", "reminded", len(report.Reminded), "started", len(report.Started), "errors", report.Errors)
	}
	return report
}

func (s *Scheduler) sendReminders(ctx context.Context, now time.Time, report *TickReport) {
	upcoming, err := s.store.UpcomingMatches(ctx, now)
	if err != nil {
		log.Error("Failed to load upcoming matches", "error", err)
		report.Errors++
		return
	}

	for _, m := range upcoming {
		until := m.ScheduledTime.Sub(now)
		if !s.inWindow(until) {
			continue
		}
		if _, ok := s.notified[m.ID]; ok {
			continue
		}
		if m.ReminderSent {
			log.Debug("Reminder already sent before restart", "matchID", m.ID)
			s.notified[m.ID] = m.ScheduledTime
			continue
		}

		log.Info("Sending match reminder", "matchID", m.ID, "until", until.Round(time.Second))
		s.dispatch(ctx, notifier.KindReminder, m, now)
		s.notified[m.ID] = m.ScheduledTime
		s.metrics.IncRemindersSent()
		report.Reminded = append(report.Reminded, m.ID)

		if err := s.store.MarkReminderSent(ctx, m.ID); err != nil {
			log.Error("Failed to persist reminder flag", "error", err, "matchID", m.ID)
			report.Errors++
		}
	}
}

// startDueMatches moves scheduled matches whose start time has passed to
// in_progress. Participants are told the match is starting unless the
// transition is overdue by more than the reminder lead.
func (s *Scheduler) startDueMatches(ctx context.Context, now time.Time, report *TickReport) {
	all, err := s.store.ListMatches(ctx)
	if err != nil {
		log.Error("Failed to load matches", "error", err)
		report.Errors++
		return
	}

	for _, m := range all {
		if m.Status != tournament.StatusScheduled || m.ScheduledTime.After(now) {
			continue
		}
		updated, err := s.updateStatus(ctx, m, tournament.StatusInProgress)
		if err != nil {
			report.Errors++
			continue
		}
		delete(s.notified, m.ID)
		s.metrics.IncMatchesStarted()
		report.Started = append(report.Started, m.ID)

		if late := now.Sub(m.ScheduledTime); late > s.opts.Lead {
			log.Warn("Match started late, skipping start notification", "matchID", m.ID, "late", late.Round(time.Second))
			continue
		}
		s.dispatch(ctx, notifier.KindImmediateStart, updated, now)
	}
}

func (s *Scheduler) updateStatus(ctx context.Context, m tournament.Match, status tournament.Status) (tournament.Match, error) {
	log.Info("Updating match status", "matchID", m.ID, "from", m.Status, "to", status)
	updated, err := s.store.SetMatchStatus(ctx, m.ID, status)
	if err != nil {
		log.Error("Failed to update match status", "error", err, "matchID", m.ID, "status", status)
		return tournament.Match{}, fmt.Errorf("failed to set status of %s: %w", m.ID, err)
	}
	return updated, nil
}

// NotifyCancellation tells both participants that match was cancelled.
func (s *Scheduler) NotifyCancellation(ctx context.Context, match tournament.Match) int {
	s.mu.Lock()
	delete(s.notified, match.ID)
	s.mu.Unlock()

	log.Info("Sending cancellation notices", "matchID", match.ID)
	return s.dispatch(ctx, notifier.KindCancellation, match, s.clock.Now())
}

// dispatch notifies both participants and returns how many were reached.
// Undeliverable recipients are logged and counted, never retried.
func (s *Scheduler) dispatch(ctx context.Context, kind notifier.Kind, m tournament.Match, now time.Time) int {
	delivered := 0
	for _, recipient := range m.Participants() {
		intent := notifier.NewIntent(kind, recipient, m, s.opts.Server, now)
		res, err := s.notifier.Notify(ctx, intent)
		switch {
		case err != nil:
			log.Error("Failed to deliver notification", "error", err, "kind", kind, "matchID", m.ID, "recipient", recipient)
			s.metrics.IncNotifUndeliverable(string(kind))
		case res == notifier.Undeliverable:
			log.Warn("Notification undeliverable", "kind", kind, "matchID", m.ID, "recipient", recipient)
			s.metrics.IncNotifUndeliverable(string(kind))
		default:
			delivered++
			s.metrics.IncNotifDelivered(string(kind))
		}
	}
	return delivered
}

// Cleanup forgets reminded matches that no longer need tracking and returns
// how many were dropped.
func (s *Scheduler) Cleanup(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanup(ctx, s.clock.Now())
}

func (s *Scheduler) cleanup(ctx context.Context, now time.Time) int {
	if len(s.notified) == 0 {
		return 0
	}

	var live map[string]bool
	if all, err := s.store.ListMatches(ctx); err == nil {
		live = make(map[string]bool, len(all))
		for _, m := range all {
			live[m.ID] = true
		}
	} else {
		log.Warn("Failed to load matches for cleanup", "error", err)
	}

	dropped := 0
	for id, at := range s.notified {
		gone := live != nil && !live[id]
		if gone || now.Sub(at) > notifiedRetention {
			delete(s.notified, id)
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug("Cleaned up reminder tracking", "dropped", dropped, "remaining", len(s.notified))
	}
	return dropped
}

// Notified reports whether a reminder for matchID was sent by this instance.
func (s *Scheduler) Notified(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notified[matchID]
	return ok
}
