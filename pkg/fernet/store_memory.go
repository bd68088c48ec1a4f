package fernet

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and embedders that manage key
// persistence themselves.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[int][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[int][]byte)}
}

func (s *MemoryStore) List(ctx context.Context) ([]Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]Key, 0, len(s.keys))
	for index, material := range s.keys {
		m := make([]byte, len(material))
		copy(m, material)
		keys = append(keys, Key{Index: index, Material: m})
	}
	return keys, nil
}

func (s *MemoryStore) Put(ctx context.Context, index int, material []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make([]byte, len(material))
	copy(m, material)
	s.keys[index] = m
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, index)
	return nil
}
