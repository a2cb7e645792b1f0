package scheduler

import (
	"context"
	"time"

	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

// Store defines the tournament operations required by the scheduler.
type Store interface {
	UpcomingMatches(ctx context.Context, now time.Time) ([]tournament.Match, error)
	ListMatches(ctx context.Context) ([]tournament.Match, error)
	SetMatchStatus(ctx context.Context, matchID string, status tournament.Status) (tournament.Match, error)
	MarkReminderSent(ctx context.Context, matchID string) error
}

// Notifier defines the notification operations required by the scheduler.
type Notifier interface {
	notifier.Notifier
}
