package recordstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mauv0809/duel-keeper/internal/recordstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func newJSONStore(t *testing.T) (recordstore.Store[record], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "records.json")
	store, err := recordstore.NewJSONStore[record](path)
	require.NoError(t, err)
	return store, path
}

func TestJSONStore_CreatesEmptyFile(t *testing.T) {
	_, path := newJSONStore(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestJSONStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newJSONStore(t)

	want := record{Name: "Alice", Score: 3}
	require.NoError(t, store.Put(ctx, "1", want))

	got, ok, err := store.Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, store.Delete(ctx, "1"))
	_, ok, err = store.Get(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok, "deleted key should be absent")

	assert.NoError(t, store.Delete(ctx, "missing"), "deleting an absent key is a no-op")
}

func TestJSONStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newJSONStore(t)

	require.NoError(t, store.Put(ctx, "1", record{Name: "Alice", Score: 3}))
	require.NoError(t, store.Put(ctx, "1", record{Name: "Alice B"}))

	got, _, err := store.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, record{Name: "Alice B"}, got, "put replaces the record without merging")
}

func TestJSONStore_FileLayout(t *testing.T) {
	ctx := context.Background()
	store, path := newJSONStore(t)

	require.NoError(t, store.Put(ctx, "42", record{Name: "Bob", Score: 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"42": {"name": "Bob", "score": 1}}`, string(data))
	assert.Contains(t, string(data), "\n  \"42\"", "collection file should be pretty-printed")
}

func TestJSONStore_CorruptFileReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store, path := newJSONStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, ok, err := store.Get(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONStore_MissingFileReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store, path := newJSONStore(t)

	require.NoError(t, os.Remove(path))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJSONStore_Update(t *testing.T) {
	ctx := context.Background()
	store, _ := newJSONStore(t)

	t.Run("creates missing record", func(t *testing.T) {
		got, err := store.Update(ctx, "1", func(current record, exists bool) (record, error) {
			assert.False(t, exists)
			return record{Name: "Carol", Score: 1}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, got.Score)
	})

	t.Run("mutates existing record", func(t *testing.T) {
		got, err := store.Update(ctx, "1", func(current record, exists bool) (record, error) {
			assert.True(t, exists)
			current.Score += 2
			return current, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, got.Score)
	})

	t.Run("callback error leaves state untouched", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := store.Update(ctx, "1", func(current record, exists bool) (record, error) {
			return record{Name: "changed"}, boom
		})
		assert.ErrorIs(t, err, boom)

		got, _, err := store.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, record{Name: "Carol", Score: 3}, got)
	})
}

func TestJSONStore_DeleteIf(t *testing.T) {
	ctx := context.Background()
	store, _ := newJSONStore(t)
	require.NoError(t, store.Put(ctx, "1", record{Name: "Alice", Score: 3}))

	t.Run("callback error keeps the record", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := store.DeleteIf(ctx, "1", func(current record, exists bool) error {
			assert.True(t, exists)
			assert.Equal(t, "Alice", current.Name)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, ok, err := store.Get(ctx, "1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("removes and returns the record", func(t *testing.T) {
		removed, err := store.DeleteIf(ctx, "1", func(current record, exists bool) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, record{Name: "Alice", Score: 3}, removed)

		_, ok, err := store.Get(ctx, "1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("absent key is reported to the callback", func(t *testing.T) {
		removed, err := store.DeleteIf(ctx, "missing", func(current record, exists bool) error {
			assert.False(t, exists)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, record{}, removed)
	})
}

func TestJSONStore_WriteFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store, path := newJSONStore(t)

	// Replacing the directory with a file makes the temp file creation fail.
	dir := filepath.Dir(path)
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	err := store.Put(ctx, "1", record{Name: "Dave"})
	require.Error(t, err)
	assert.ErrorIs(t, err, recordstore.ErrPersistence)
}

func TestBackup(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, "players.json")
	store, err := recordstore.NewJSONStore[record](path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "1", record{Name: "Erin"}))

	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	dir, err := recordstore.Backup(dataDir, now, path, filepath.Join(dataDir, "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "backups", "20250301_123000"), dir)

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(dir, "players.json"))
	require.NoError(t, err)
	assert.Equal(t, original, copied)
}
