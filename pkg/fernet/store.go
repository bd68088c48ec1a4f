package fernet

import "context"

// Store persists key material addressed by integer index. Concrete stores
// (filesystem, sqlite, in-memory) implement this; the Repository never touches
// a backing store directly except through it.
type Store interface {
	// List returns every key in the store, in no particular order.
	List(ctx context.Context) ([]Key, error)

	// Put writes material at the given index, overwriting any existing entry.
	Put(ctx context.Context, index int, material []byte) error

	// Delete removes the key at the given index. Deleting an index that does
	// not exist is not an error.
	Delete(ctx context.Context, index int) error
}
