package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/stats"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

type registerRequest struct {
	ID          int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
}

func ListPlayersHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.ListPlayers(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

// SearchPlayersHandler finds players whose display name resembles ?q=.
func SearchPlayersHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
			return
		}
		players, err := store.ListPlayers(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		hits := tournament.SearchPlayers(players, query, 5)
		if hits == nil {
			hits = []tournament.PlayerMatch{}
		}
		writeJSON(w, http.StatusOK, hits)
	}
}

func GetPlayerHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		player, ok, err := store.GetPlayer(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "player is not registered"})
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func RegisterPlayerHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		player, err := store.RegisterPlayer(r.Context(), req.ID, req.DisplayName, AdminFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

func RemovePlayerHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		player, err := store.RemovePlayer(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Player removed by admin", "playerID", id, "admin", AdminFromContext(r))
		writeJSON(w, http.StatusOK, player)
	}
}

func UpdatePlayerStatsHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var delta tournament.StatsDelta
		if err := decodeBody(r, &delta); err != nil {
			writeError(w, err)
			return
		}
		player, err := store.UpdatePlayerStats(r.Context(), id, delta)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func PlayerMatchesHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		matches, err := store.MatchesForPlayer(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if matches == nil {
			matches = []tournament.Match{}
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func PlayerRankHandler(engine stats.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		rank, ok, err := engine.RankOf(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unranked"})
			return
		}
		writeJSON(w, http.StatusOK, rank)
	}
}
