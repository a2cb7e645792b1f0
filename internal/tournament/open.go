package tournament

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/config"
	"github.com/mauv0809/duel-keeper/internal/database"
	"github.com/mauv0809/duel-keeper/internal/recordstore"
)

// Collection names, also used as JSON file stems.
const (
	PlayersCollection = "players"
	MatchesCollection = "matches"
)

// ErrBackupUnsupported is returned by Backup for remote databases.
var ErrBackupUnsupported = errors.New("backup is not supported for this backend")

// Backend bundles an opened Store with the operations that depend on where
// its records live.
type Backend struct {
	Store  Store
	backup func(now time.Time) (string, error)
	close  func()
}

// Backup snapshots the backend's data into a timestamped directory.
func (b *Backend) Backup(now time.Time) (string, error) {
	if b.backup == nil {
		return "", ErrBackupUnsupported
	}
	return b.backup(now)
}

// Close releases the backend's resources.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open creates the Store selected by cfg.StoreBackend.
func Open(cfg config.Config, clk clock.Clock) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return openSQL(cfg, clk)
	default:
		return openJSON(cfg.DataDir, clk)
	}
}

func openJSON(dataDir string, clk clock.Clock) (*Backend, error) {
	playersPath := filepath.Join(dataDir, PlayersCollection+".json")
	matchesPath := filepath.Join(dataDir, MatchesCollection+".json")

	players, err := recordstore.NewJSONStore[Player](playersPath)
	if err != nil {
		return nil, err
	}
	matches, err := recordstore.NewJSONStore[Match](matchesPath)
	if err != nil {
		return nil, err
	}
	log.Info("Using JSON record store", "dir", dataDir)
	return &Backend{
		Store:  New(players, matches, clk),
		backup: func(now time.Time) (string, error) {
			return recordstore.Backup(dataDir, now, playersPath, matchesPath)
		},
	}, nil
}

func openSQL(cfg config.Config, clk clock.Clock) (*Backend, error) {
	dbPath := cfg.DBName
	if dbPath != ":memory:" && !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(cfg.DataDir, dbPath)
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating data directory: %w", recordstore.ErrPersistence, err)
		}
	}
	db, teardown, err := database.InitDB(dbPath, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recordstore.ErrPersistence, err)
	}

	b := &Backend{
		Store: New(
			recordstore.NewSQLStore[Player](db, PlayersCollection),
			recordstore.NewSQLStore[Match](db, MatchesCollection),
			clk,
		),
		close: teardown,
	}
	if cfg.Turso.PrimaryURL == "" && dbPath != ":memory:" {
		b.backup = func(now time.Time) (string, error) {
			return recordstore.BackupSQLite(context.Background(), db, cfg.DataDir, filepath.Base(dbPath), now)
		}
	}
	log.Info("Using SQL record store", "path", dbPath, "remote", cfg.Turso.PrimaryURL != "")
	return b, nil
}
