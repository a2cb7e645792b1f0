package handlers

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/stats"
)

// LeaderboardHandler serves the leaderboard. Query parameters: sort (one of
// wins, win_rate, kills, kd_ratio, total_matches) and limit.
func LeaderboardHandler(engine stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := stats.ParseSortKey(r.URL.Query().Get("sort"))
		limit := 10
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err == nil {
				limit = parsed
			} else {
				log.Warn("Invalid 'limit' parameter provided. Defaulting to 10.", "limit_param", limitStr)
			}
		}

		entries, err := engine.Leaderboard(r.Context(), key, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if entries == nil {
			entries = []stats.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func TournamentStatsHandler(engine stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := engine.TournamentStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func CompareHandler(engine stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := parseID(r.URL.Query().Get("a"), "a")
		if err != nil {
			writeError(w, err)
			return
		}
		b, err := parseID(r.URL.Query().Get("b"), "b")
		if err != nil {
			writeError(w, err)
			return
		}
		comparison, err := engine.Compare(r.Context(), a, b)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comparison)
	}
}
