package fernet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FSStore keeps one file per key inside a directory. Files are named by their
// decimal index and hold the URL-safe base64 form of the material; anything
// else in the directory (temp files, editor droppings) is ignored. The
// directory is created 0700 and key files 0600.
type FSStore struct {
	dir string
}

// NewFSStore returns a store rooted at dir. The directory is created lazily
// on the first Put.
func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

// Dir returns the directory the store reads and writes.
func (s *FSStore) Dir() string {
	return s.dir
}

func (s *FSStore) List(ctx context.Context) ([]Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}

	var keys []Key
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		material, err := s.readKeyFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("%w: key file %q: %v", ErrRepositoryUnavailable, entry.Name(), err)
		}
		keys = append(keys, Key{Index: index, Material: material})
	}
	return keys, nil
}

func (s *FSStore) Put(ctx context.Context, index int, material []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}

	// Write through a temp file and rename so a reader never sees a partial key.
	tmp, err := os.CreateTemp(s.dir, ".key-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	content := base64.URLEncoding.EncodeToString(material)
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("fernet: writing key %d: %w", index, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("fernet: writing key %d: %w", index, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("fernet: writing key %d: %w", index, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, strconv.Itoa(index))); err != nil {
		return fmt.Errorf("fernet: writing key %d: %w", index, err)
	}
	return nil
}

func (s *FSStore) Delete(ctx context.Context, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, strconv.Itoa(index)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fernet: deleting key %d: %w", index, err)
	}
	return nil
}

// readKeyFile decodes a key file's content. Padded and unpadded base64 are
// both accepted; trailing whitespace is tolerated.
func (s *FSStore) readKeyFile(name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	content := strings.TrimRight(strings.TrimSpace(string(b)), "=")
	material, err := base64.RawURLEncoding.DecodeString(content)
	if err != nil {
		return nil, err
	}
	if len(material) != KeySize {
		return nil, fmt.Errorf("decoded %d bytes, want %d", len(material), KeySize)
	}
	return material, nil
}
