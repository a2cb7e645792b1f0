package tournament

import (
	"context"
	"time"
)

// Store exposes the tournament's players and matches. Mutations validate
// their input and never partially apply; read paths report absence through a
// boolean instead of an error.
type Store interface {
	RegisterPlayer(ctx context.Context, id int64, name string, adminID int64) (Player, error)
	RemovePlayer(ctx context.Context, id int64) (Player, error)
	UpdatePlayerStats(ctx context.Context, id int64, delta StatsDelta) (Player, error)
	GetPlayer(ctx context.Context, id int64) (Player, bool, error)
	ListPlayers(ctx context.Context) ([]Player, error)

	ScheduleMatch(ctx context.Context, player1ID, player2ID int64, at time.Time, adminID int64) (Match, error)
	CancelMatch(ctx context.Context, idOrPrefix string) (Match, error)
	SetMatchStatus(ctx context.Context, matchID string, status Status) (Match, error)
	MarkReminderSent(ctx context.Context, matchID string) error
	GetMatch(ctx context.Context, matchID string) (Match, bool, error)
	ListMatches(ctx context.Context) ([]Match, error)
	MatchesForPlayer(ctx context.Context, playerID int64) ([]Match, error)
	UpcomingMatches(ctx context.Context, now time.Time) ([]Match, error)
}
