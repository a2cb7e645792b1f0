package stats

import "github.com/mauv0809/duel-keeper/internal/tournament"

type engine struct {
	source Source
}

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	SortWins         SortKey = "wins"
	SortWinRate      SortKey = "win_rate"
	SortKills        SortKey = "kills"
	SortKDRatio      SortKey = "kd_ratio"
	SortTotalMatches SortKey = "total_matches"
)

// ParseSortKey maps a user supplied key to a SortKey, falling back to wins.
// "matches" is accepted as an alias of total_matches.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortWins, SortWinRate, SortKills, SortKDRatio, SortTotalMatches:
		return k
	case "matches":
		return SortTotalMatches
	}
	return SortWins
}

// Entry is a player with derived leaderboard figures.
type Entry struct {
	Position     int               `json:"position"`
	Player       tournament.Player `json:"player"`
	TotalMatches int               `json:"total_matches"`

	// WinRate is a percentage in [0, 100].
	WinRate float64 `json:"win_rate"`
	KDRatio float64 `json:"kd_ratio"`
}

// Summary aggregates the whole tournament.
type Summary struct {
	TotalPlayers      int     `json:"total_players"`
	TotalMatches      int     `json:"total_matches"`
	CompletedMatches  int     `json:"completed_matches"`
	ScheduledMatches  int     `json:"scheduled_matches"`
	InProgressMatches int     `json:"in_progress_matches"`
	TotalKills        int     `json:"total_kills"`
	TotalDeaths       int     `json:"total_deaths"`
	TotalWins         int     `json:"total_wins"`
	TotalLosses       int     `json:"total_losses"`
	TotalDraws        int     `json:"total_draws"`
	AvgKills          float64 `json:"avg_kills_per_player"`
	AvgDeaths         float64 `json:"avg_deaths_per_player"`
	AvgMatches        float64 `json:"avg_matches_per_player"`
}

// Rank is a player's position in the wins ordering.
type Rank struct {
	PlayerID   int64   `json:"player_id"`
	Position   int     `json:"position"`
	Of         int     `json:"of"`
	Percentile float64 `json:"percentile"`
}

// Comparison puts two players' figures side by side.
type Comparison struct {
	A Entry `json:"a"`
	B Entry `json:"b"`

	// HeadToHead counts matches the two have been scheduled against each other.
	HeadToHead int `json:"head_to_head"`
}
