package recordstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

func backupDir(dataDir string, now time.Time) (string, error) {
	dir := filepath.Join(dataDir, "backups", now.UTC().Format("20060102_150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating backup directory: %w", ErrPersistence, err)
	}
	return dir, nil
}

// Backup copies the given collection files into dataDir/backups/<timestamp>/
// and returns the backup directory. Missing source files are skipped.
func Backup(dataDir string, now time.Time, files ...string) (string, error) {
	dir, err := backupDir(dataDir, now)
	if err != nil {
		return "", err
	}

	for _, src := range files {
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			if os.IsNotExist(err) {
				log.Warn("Skipping missing collection file in backup", "path", src)
				continue
			}
			log.Error("Backup failed", "path", src, "error", err)
			return "", fmt.Errorf("%w: backing up %s: %w", ErrPersistence, src, err)
		}
	}
	log.Info("Data backed up", "dir", dir, "files", len(files))
	return dir, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// BackupSQLite writes a consistent snapshot of the open SQLite database into
// dataDir/backups/<timestamp>/name using VACUUM INTO, so concurrent writers
// and WAL mode do not leave a torn copy.
func BackupSQLite(ctx context.Context, db *sql.DB, dataDir, name string, now time.Time) (string, error) {
	dir, err := backupDir(dataDir, now)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, name)
	// VACUUM INTO refuses to overwrite an existing file.
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("%w: clearing %s: %w", ErrPersistence, target, err)
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", target); err != nil {
		log.Error("SQLite backup failed", "target", target, "error", err)
		return "", fmt.Errorf("%w: vacuum into %s: %w", ErrPersistence, target, err)
	}
	log.Info("Database backed up", "dir", dir, "file", name)
	return dir, nil
}
