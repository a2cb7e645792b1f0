package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

var _ Store[struct{}] = (*sqlStore[struct{}])(nil)

// sqlStore keeps one collection as JSON documents in the shared records table.
type sqlStore[T any] struct {
	db         *sql.DB
	collection string
	mu         sync.RWMutex
}

// NewSQLStore creates a Store for collection on top of a database prepared by
// database.InitDB.
func NewSQLStore[T any](db *sql.DB, collection string) Store[T] {
	return &sqlStore[T]{
		db:         db,
		collection: collection,
	}
}

func (s *sqlStore[T]) Get(ctx context.Context, key string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, s.db, key)
}

func (s *sqlStore[T]) Put(ctx context.Context, key string, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, s.db, key, record)
}

func (s *sqlStore[T]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE collection = ? AND key = ?", s.collection, key)
	if err != nil {
		log.Error("Failed to delete record", "collection", s.collection, "key", key, "error", err)
		return fmt.Errorf("%w: deleting %s/%s: %w", ErrPersistence, s.collection, key, err)
	}
	return nil
}

func (s *sqlStore[T]) List(ctx context.Context) (map[string]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM records WHERE collection = ?", s.collection)
	if err != nil {
		log.Error("Failed to list records", "collection", s.collection, "error", err)
		return nil, fmt.Errorf("%w: listing %s: %w", ErrPersistence, s.collection, err)
	}
	defer rows.Close()

	records := make(map[string]T)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Error("Failed to scan record row", "collection", s.collection, "error", err)
			continue
		}
		var record T
		if err := json.Unmarshal([]byte(value), &record); err != nil {
			log.Warn("Skipping corrupt record", "collection", s.collection, "key", key, "error", err)
			continue
		}
		records[key] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrPersistence, s.collection, err)
	}
	return records, nil
}

func (s *sqlStore[T]) Update(ctx context.Context, key string, fn func(current T, exists bool) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("%w: beginning transaction: %w", ErrPersistence, err)
	}
	defer tx.Rollback()

	current, ok, err := s.get(ctx, tx, key)
	if err != nil {
		return zero, err
	}
	next, err := fn(current, ok)
	if err != nil {
		return zero, err
	}
	if err := s.put(ctx, tx, key, next); err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit record update", "collection", s.collection, "key", key, "error", err)
		return zero, fmt.Errorf("%w: committing %s/%s: %w", ErrPersistence, s.collection, key, err)
	}
	return next, nil
}

func (s *sqlStore[T]) DeleteIf(ctx context.Context, key string, fn func(current T, exists bool) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("%w: beginning transaction: %w", ErrPersistence, err)
	}
	defer tx.Rollback()

	current, ok, err := s.get(ctx, tx, key)
	if err != nil {
		return zero, err
	}
	if err := fn(current, ok); err != nil {
		return zero, err
	}
	if !ok {
		return zero, nil
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = ? AND key = ?", s.collection, key); err != nil {
		log.Error("Failed to delete record", "collection", s.collection, "key", key, "error", err)
		return zero, fmt.Errorf("%w: deleting %s/%s: %w", ErrPersistence, s.collection, key, err)
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit record delete", "collection", s.collection, "key", key, "error", err)
		return zero, fmt.Errorf("%w: committing %s/%s: %w", ErrPersistence, s.collection, key, err)
	}
	return current, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *sqlStore[T]) get(ctx context.Context, q querier, key string) (T, bool, error) {
	var zero T
	var value string
	err := q.QueryRowContext(ctx, "SELECT value FROM records WHERE collection = ? AND key = ?", s.collection, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		log.Error("Failed to read record", "collection", s.collection, "key", key, "error", err)
		return zero, false, fmt.Errorf("%w: reading %s/%s: %w", ErrPersistence, s.collection, key, err)
	}
	var record T
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		log.Warn("Record is corrupt, treating it as absent", "collection", s.collection, "key", key, "error", err)
		return zero, false, nil
	}
	return record, true, nil
}

func (s *sqlStore[T]) put(ctx context.Context, q querier, key string, record T) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encoding %s/%s: %w", ErrPersistence, s.collection, key, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO records (collection, key, value) VALUES (?, ?, ?)
		ON CONFLICT(collection, key) DO UPDATE SET value = excluded.value;
	`, s.collection, key, string(value))
	if err != nil {
		log.Error("Failed to write record", "collection", s.collection, "key", key, "error", err)
		return fmt.Errorf("%w: writing %s/%s: %w", ErrPersistence, s.collection, key, err)
	}
	return nil
}
