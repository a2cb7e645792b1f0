package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

var _ Store[struct{}] = (*jsonStore[struct{}])(nil)

// jsonStore keeps one collection in a pretty-printed JSON object on disk.
type jsonStore[T any] struct {
	path string
	mu   sync.Mutex
}

// NewJSONStore creates a Store backed by the JSON file at path, creating the
// directory and an empty collection file if they do not exist yet.
func NewJSONStore[T any](path string) (Store[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %w", ErrPersistence, err)
	}
	s := &jsonStore[T]{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.save(map[string]T{}); err != nil {
			return nil, err
		}
		log.Info("Initialized empty collection file", "path", path)
	}
	return s, nil
}

func (s *jsonStore[T]) Get(ctx context.Context, key string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.load()[key]
	return record, ok, nil
}

func (s *jsonStore[T]) Put(ctx context.Context, key string, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.load()
	records[key] = record
	return s.save(records)
}

func (s *jsonStore[T]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.load()
	if _, ok := records[key]; !ok {
		return nil
	}
	delete(records, key)
	return s.save(records)
}

func (s *jsonStore[T]) List(ctx context.Context) (map[string]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *jsonStore[T]) Update(ctx context.Context, key string, fn func(current T, exists bool) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	current, ok := records[key]
	next, err := fn(current, ok)
	if err != nil {
		var zero T
		return zero, err
	}
	records[key] = next
	if err := s.save(records); err != nil {
		var zero T
		return zero, err
	}
	return next, nil
}

func (s *jsonStore[T]) DeleteIf(ctx context.Context, key string, fn func(current T, exists bool) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records := s.load()
	current, ok := records[key]
	if err := fn(current, ok); err != nil {
		return zero, err
	}
	if !ok {
		return zero, nil
	}
	delete(records, key)
	if err := s.save(records); err != nil {
		return zero, err
	}
	return current, nil
}

// load reads the whole collection. A missing, empty or corrupt file yields an
// empty collection.
func (s *jsonStore[T]) load() map[string]T {
	records := make(map[string]T)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("Failed to read collection file, treating it as empty", "path", s.path, "error", err)
		}
		return records
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn("Collection file is corrupt, treating it as empty", "path", s.path, "error", err)
		return make(map[string]T)
	}
	return records
}

// save rewrites the collection through a temp file and a rename so a reader
// never observes a partially written file.
func (s *jsonStore[T]) save(records map[string]T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Error("Failed to encode collection", "path", s.path, "error", err)
		return fmt.Errorf("%w: encoding %s: %w", ErrPersistence, s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		log.Error("Failed to create temp file for collection", "path", s.path, "error", err)
		return fmt.Errorf("%w: writing %s: %w", ErrPersistence, s.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		log.Error("Failed to write collection", "path", s.path, "error", err)
		return fmt.Errorf("%w: writing %s: %w", ErrPersistence, s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		log.Error("Failed to sync collection", "path", s.path, "error", err)
		return fmt.Errorf("%w: syncing %s: %w", ErrPersistence, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		log.Error("Failed to close collection temp file", "path", s.path, "error", err)
		return fmt.Errorf("%w: closing %s: %w", ErrPersistence, s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		log.Error("Failed to replace collection file", "path", s.path, "error", err)
		return fmt.Errorf("%w: replacing %s: %w", ErrPersistence, s.path, err)
	}
	log.Debug("Saved collection", "path", s.path, "records", len(records))
	return nil
}
