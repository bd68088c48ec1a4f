package fernet

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tacksail/gatehouse/pkg/cryptox"
)

// Repository holds the active key set in memory and answers reads from a
// consistent snapshot. Load it once at startup; Reload refreshes the snapshot
// from the backing store, for example when a watcher sees the store change.
type Repository struct {
	store Store

	rotateMu sync.Mutex // serialises Rotate within this process

	mu   sync.RWMutex
	keys []Key // sorted primary first (descending index), never empty
}

// Load reads the full key set from store. A store with no keys at all is an
// error: run Initialize (or `gatehousectl keys setup`) first.
func Load(ctx context.Context, store Store) (*Repository, error) {
	r := &Repository{store: store}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the key set from the backing store and swaps the snapshot.
// On error the previous snapshot stays in place, so readers keep working with
// the keys they had.
func (r *Repository) Reload(ctx context.Context) error {
	keys, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return ErrRepositoryEmpty
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Index > keys[j].Index })

	r.mu.Lock()
	r.keys = keys
	r.mu.Unlock()
	return nil
}

// Primary returns the key new tokens are sealed under: the one with the
// highest index.
func (r *Repository) Primary() Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keys[0]
}

// All returns a snapshot of every key, primary first, oldest last. The slice
// is the caller's to keep.
func (r *Repository) All() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Key(nil), r.keys...)
}

// Rotate mints fresh material at maxIndex+1, then prunes lowest-index keys
// while more than maxActive remain. maxActive <= 0 disables pruning. The
// bootstrap key at index 0 survives every rotation unless the pruning bound
// forces it out.
func (r *Repository) Rotate(ctx context.Context, maxActive int) error {
	r.rotateMu.Lock()
	defer r.rotateMu.Unlock()

	// The backing store is the source of truth here, not the snapshot:
	// another process may have rotated since our last reload.
	keys, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return ErrRepositoryEmpty
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Index < keys[j].Index })

	material, err := cryptox.GenerateKeyMaterial()
	if err != nil {
		return err
	}
	next := keys[len(keys)-1].Index + 1
	if err := r.store.Put(ctx, next, material); err != nil {
		return err
	}

	if maxActive > 0 {
		active := len(keys) + 1
		for _, key := range keys {
			if active <= maxActive {
				break
			}
			if err := r.store.Delete(ctx, key.Index); err != nil {
				return err
			}
			active--
		}
	}

	return r.Reload(ctx)
}

// Initialize writes the bootstrap key at index 0 if and only if the store
// holds no keys, so setup can run on every start. A store whose location does
// not exist yet counts as empty.
func Initialize(ctx context.Context, store Store) error {
	keys, err := store.List(ctx)
	if err != nil && !errors.Is(err, ErrRepositoryUnavailable) {
		return err
	}
	if len(keys) > 0 {
		return nil
	}
	material, err := cryptox.GenerateKeyMaterial()
	if err != nil {
		return err
	}
	return store.Put(ctx, 0, material)
}
