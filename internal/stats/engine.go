package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/mauv0809/duel-keeper/internal/tournament"
)

// New creates an Engine reading from source.
func New(source Source) Engine {
	return &engine{source: source}
}

// WinRate returns wins as a percentage of total matches, counting a player
// with no matches as having played one.
func WinRate(p tournament.Player) float64 {
	return float64(p.Wins) / float64(max(1, p.TotalMatches())) * 100
}

// KDRatio returns kills per death, treating zero deaths as one.
func KDRatio(p tournament.Player) float64 {
	return float64(p.Kills) / float64(max(1, p.Deaths))
}

func entryFor(p tournament.Player) Entry {
	return Entry{
		Player:       p,
		TotalMatches: p.TotalMatches(),
		WinRate:      WinRate(p),
		KDRatio:      KDRatio(p),
	}
}

func (k SortKey) value(e Entry) float64 {
	switch k {
	case SortWinRate:
		return e.WinRate
	case SortKills:
		return float64(e.Player.Kills)
	case SortKDRatio:
		return e.KDRatio
	case SortTotalMatches:
		return float64(e.TotalMatches)
	default:
		return float64(e.Player.Wins)
	}
}

// rank orders players by key descending. Ties keep ascending player id.
func rank(players []tournament.Player, key SortKey) []Entry {
	entries := make([]Entry, len(players))
	for i, p := range players {
		entries[i] = entryFor(p)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Player.ID < entries[j].Player.ID
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return key.value(entries[i]) > key.value(entries[j])
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// Leaderboard returns players ordered by key. A limit of zero or less
// returns everyone.
func (e *engine) Leaderboard(ctx context.Context, key SortKey, limit int) ([]Entry, error) {
	players, err := e.source.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	entries := rank(players, ParseSortKey(string(key)))
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (e *engine) TournamentStats(ctx context.Context) (Summary, error) {
	players, err := e.source.ListPlayers(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load players: %w", err)
	}
	matches, err := e.source.ListMatches(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load matches: %w", err)
	}

	s := Summary{
		TotalPlayers: len(players),
		TotalMatches: len(matches),
	}
	playedMatches := 0
	for _, p := range players {
		s.TotalKills += p.Kills
		s.TotalDeaths += p.Deaths
		s.TotalWins += p.Wins
		s.TotalLosses += p.Losses
		s.TotalDraws += p.Draws
		playedMatches += p.TotalMatches()
	}
	for _, m := range matches {
		switch m.Status {
		case tournament.StatusCompleted:
			s.CompletedMatches++
		case tournament.StatusScheduled:
			s.ScheduledMatches++
		case tournament.StatusInProgress:
			s.InProgressMatches++
		}
	}

	n := float64(max(1, len(players)))
	s.AvgKills = float64(s.TotalKills) / n
	s.AvgDeaths = float64(s.TotalDeaths) / n
	s.AvgMatches = float64(playedMatches) / n
	return s, nil
}

// RankOf reports the player's position by wins. The boolean is false when
// the player is not registered.
func (e *engine) RankOf(ctx context.Context, playerID int64) (Rank, bool, error) {
	players, err := e.source.ListPlayers(ctx)
	if err != nil {
		return Rank{}, false, fmt.Errorf("failed to load players: %w", err)
	}
	for _, entry := range rank(players, SortWins) {
		if entry.Player.ID != playerID {
			continue
		}
		return Rank{
			PlayerID:   playerID,
			Position:   entry.Position,
			Of:         len(players),
			Percentile: 100 - float64(entry.Position)/float64(len(players))*100,
		}, true, nil
	}
	return Rank{}, false, nil
}

// Compare returns both players' figures and how often they have been matched.
func (e *engine) Compare(ctx context.Context, a, b int64) (Comparison, error) {
	if a == b {
		return Comparison{}, fmt.Errorf("%w: cannot compare a player with themselves", tournament.ErrInvalidInput)
	}
	players, err := e.source.ListPlayers(ctx)
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to load players: %w", err)
	}
	byID := make(map[int64]tournament.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	pa, ok := byID[a]
	if !ok {
		return Comparison{}, fmt.Errorf("player %d: %w", a, tournament.ErrNotFound)
	}
	pb, ok := byID[b]
	if !ok {
		return Comparison{}, fmt.Errorf("player %d: %w", b, tournament.ErrNotFound)
	}

	matches, err := e.source.ListMatches(ctx)
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to load matches: %w", err)
	}
	c := Comparison{A: entryFor(pa), B: entryFor(pb)}
	for _, m := range matches {
		if m.Involves(a) && m.Involves(b) {
			c.HeadToHead++
		}
	}
	return c, nil
}
