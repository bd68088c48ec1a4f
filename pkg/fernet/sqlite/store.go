// Package sqlite is a database-backed fernet.Store for deployments that keep
// key material in the service database instead of a directory on disk.
// Material can optionally be wrapped with AES-256-GCM under a master key
// before it is written.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store struct {
	db        *sql.DB
	masterKey []byte
	dsn       string
}

// DSN builds the connection string for a database file, with the busy
// timeout and WAL journal settings the service uses everywhere.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
}

// NewStore opens the database. A non-empty masterKey makes the store wrap key
// material at rest; pass nil to store material as-is. Call ApplyMigrations
// before first use.
func NewStore(dsn string, masterKey []byte) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:        db,
		masterKey: masterKey,
		dsn:       dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
