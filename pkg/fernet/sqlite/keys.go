package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tacksail/gatehouse/pkg/cryptox"
	"github.com/tacksail/gatehouse/pkg/fernet"
)

// KeyInfo describes a stored key without exposing its material.
type KeyInfo struct {
	Index     int
	CreatedAt time.Time
	Encrypted bool
}

var errNoMasterKey = errors.New("sqlite: key material is encrypted and no master key is configured")

// List implements fernet.Store. Wrapped material is unwrapped with the
// configured master key; a store opened without one cannot read wrapped rows.
func (s *Store) List(ctx context.Context) ([]fernet.Key, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT idx, material, encrypted FROM fernet_keys`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fernet.ErrRepositoryUnavailable, err)
	}
	defer rows.Close()

	var keys []fernet.Key
	for rows.Next() {
		var (
			index     int
			material  []byte
			encrypted bool
		)
		if err := rows.Scan(&index, &material, &encrypted); err != nil {
			return nil, fmt.Errorf("%w: %v", fernet.ErrRepositoryUnavailable, err)
		}
		if encrypted {
			if len(s.masterKey) == 0 {
				return nil, fmt.Errorf("%w: %v", fernet.ErrRepositoryUnavailable, errNoMasterKey)
			}
			material, err = cryptox.DecryptKeyMaterial(s.masterKey, material)
			if err != nil {
				return nil, fmt.Errorf("%w: unwrapping key %d: %v", fernet.ErrRepositoryUnavailable, index, err)
			}
		}
		keys = append(keys, fernet.Key{Index: index, Material: material})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", fernet.ErrRepositoryUnavailable, err)
	}
	return keys, nil
}

// Put implements fernet.Store.
func (s *Store) Put(ctx context.Context, index int, material []byte) error {
	encrypted := false
	if len(s.masterKey) > 0 {
		wrapped, err := cryptox.EncryptKeyMaterial(s.masterKey, material)
		if err != nil {
			return fmt.Errorf("sqlite: wrapping key %d: %w", index, err)
		}
		material = wrapped
		encrypted = true
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fernet_keys (idx, material, encrypted, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (idx) DO UPDATE SET
			material   = excluded.material,
			encrypted  = excluded.encrypted,
			created_at = excluded.created_at
	`, index, material, encrypted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: writing key %d: %w", index, err)
	}
	return nil
}

// Delete implements fernet.Store. Deleting a missing index is not an error.
func (s *Store) Delete(ctx context.Context, index int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fernet_keys WHERE idx = ?`, index); err != nil {
		return fmt.Errorf("sqlite: deleting key %d: %w", index, err)
	}
	return nil
}

// ListInfo returns metadata about every stored key, newest first. Material
// never leaves the store through this path.
func (s *Store) ListInfo(ctx context.Context) ([]KeyInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT idx, encrypted, created_at FROM fernet_keys ORDER BY idx DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fernet.ErrRepositoryUnavailable, err)
	}
	defer rows.Close()

	var infos []KeyInfo
	for rows.Next() {
		var info KeyInfo
		if err := rows.Scan(&info.Index, &info.Encrypted, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", fernet.ErrRepositoryUnavailable, err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", fernet.ErrRepositoryUnavailable, err)
	}
	return infos, nil
}
