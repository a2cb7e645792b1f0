package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/scheduler"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

// Ticker runs a single scheduler pass.
type Ticker interface {
	Tick(ctx context.Context) scheduler.TickReport
}

// Backuper copies the record files somewhere safe.
type Backuper interface {
	Backup(now time.Time) (string, error)
}

func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// TickHandler runs the scheduler once outside its regular cadence.
func TickHandler(ticker Ticker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Manual scheduler tick requested", "admin", AdminFromContext(r))
		report := ticker.Tick(r.Context())
		writeJSON(w, http.StatusOK, report)
	}
}

func BackupHandler(backuper Backuper, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir, err := backuper.Backup(clk.Now())
		if errors.Is(err, tournament.ErrBackupUnsupported) {
			writeJSON(w, http.StatusNotImplemented, errorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Backup created", "dir", dir, "admin", AdminFromContext(r))
		writeJSON(w, http.StatusOK, map[string]string{"dir": dir})
	}
}
