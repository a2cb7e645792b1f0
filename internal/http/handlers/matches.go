package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

// CancellationNotifier tells participants about a cancelled match.
type CancellationNotifier interface {
	NotifyCancellation(ctx context.Context, match tournament.Match) int
}

type scheduleRequest struct {
	Player1ID     int64     `json:"player1_id"`
	Player2ID     int64     `json:"player2_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

type cancelResponse struct {
	Match    tournament.Match `json:"match"`
	Notified int              `json:"notified"`
}

func ListMatchesHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := store.ListMatches(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func UpcomingMatchesHandler(store tournament.Store, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := store.UpcomingMatches(r.Context(), clk.Now())
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

func GetMatchHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, ok, err := store.GetMatch(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "match not found"})
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func ScheduleMatchHandler(store tournament.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scheduleRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.ScheduledTime.IsZero() {
			writeError(w, fmt.Errorf("%w: scheduled_time is required", tournament.ErrInvalidInput))
			return
		}
		match, err := store.ScheduleMatch(r.Context(), req.Player1ID, req.Player2ID, req.ScheduledTime, AdminFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

// CancelMatchHandler cancels a match by id or unique id prefix and notifies
// both participants.
func CancelMatchHandler(store tournament.Store, notifier CancellationNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := store.CancelMatch(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		notified := notifier.NotifyCancellation(r.Context(), match)
		writeJSON(w, http.StatusOK, cancelResponse{Match: match, Notified: notified})
	}
}
