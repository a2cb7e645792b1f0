package recordstore

import "context"

// Store is a durable mapping from string key to record for one collection.
// Every call observes the persisted state; nothing is cached between calls.
type Store[T any] interface {
	// Get returns the record stored under key. A missing key is reported
	// through the boolean, not as an error.
	Get(ctx context.Context, key string) (T, bool, error)
	// Put inserts or fully overwrites the record stored under key.
	Put(ctx context.Context, key string, record T) error
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
	// List returns a snapshot of the whole collection.
	List(ctx context.Context) (map[string]T, error)
	// Update loads the record under key, passes it to fn and persists the
	// result, all without another writer interleaving. If fn returns an
	// error nothing is written and the error is returned unchanged.
	Update(ctx context.Context, key string, fn func(current T, exists bool) (T, error)) (T, error)
	// DeleteIf loads the record under key, passes it to fn and removes it
	// only if fn returns nil, without another writer interleaving. The
	// removed record is returned. If fn returns an error nothing is deleted
	// and the error is returned unchanged.
	DeleteIf(ctx context.Context, key string, fn func(current T, exists bool) error) (T, error)
}
