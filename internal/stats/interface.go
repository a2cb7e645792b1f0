package stats

import (
	"context"

	"github.com/mauv0809/duel-keeper/internal/tournament"
)

// Source is the read side of the tournament store the engine aggregates over.
type Source interface {
	ListPlayers(ctx context.Context) ([]tournament.Player, error)
	ListMatches(ctx context.Context) ([]tournament.Match, error)
}

// Engine derives rankings and summaries from a fresh snapshot on every call.
type Engine interface {
	Leaderboard(ctx context.Context, key SortKey, limit int) ([]Entry, error)
	TournamentStats(ctx context.Context) (Summary, error)
	RankOf(ctx context.Context, playerID int64) (Rank, bool, error)
	Compare(ctx context.Context, a, b int64) (Comparison, error)
}
