package main

import (
	"context"
	"fmt"

	"github.com/tacksail/gatehouse/pkg/fernet"
	"github.com/tacksail/gatehouse/pkg/fernet/sqlite"
	"github.com/tacksail/gatehouse/pkg/jws"
	"github.com/tacksail/gatehouse/pkg/token"
)

// openStore builds the configured key store. The returned func releases it
// and is safe to call on every path.
func openStore() (fernet.Store, func(), error) {
	switch cfg.Keys.Backend {
	case "sqlite":
		masterKey, err := cfg.Keys.MasterKey()
		if err != nil {
			return nil, nil, err
		}

		st, err := sqlite.NewStore(sqlite.DSN(cfg.Keys.Database), masterKey)
		if err != nil {
			return nil, nil, err
		}
		if err := st.ApplyMigrations(); err != nil {
			_ = st.Close()
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil

	default:
		return fernet.NewFSStore(cfg.Keys.Dir), func() {}, nil
	}
}

// storeLocation names where keys live, for messages.
func storeLocation() string {
	if cfg.Keys.Backend == "sqlite" {
		return cfg.Keys.Database
	}
	return cfg.Keys.Dir
}

// loadRepository opens the store and loads a repository snapshot from it.
func loadRepository(ctx context.Context) (*fernet.Repository, func(), error) {
	st, closeStore, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	repo, err := fernet.Load(ctx, st)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("load key repository from %s: %w", storeLocation(), err)
	}
	return repo, closeStore, nil
}

// tokenProvider is what the token commands need; both the encrypted and the
// signed provider satisfy it.
type tokenProvider interface {
	Issue(token.Claims) (string, error)
	Validate(string) (token.Claims, error)
}

// newProvider builds the configured token provider.
func newProvider(ctx context.Context) (tokenProvider, func(), error) {
	pcfg := token.Config{DefaultDomainID: cfg.Token.DefaultDomainID}

	switch cfg.Token.Provider {
	case "jws":
		keys := jws.NewKeyManager()
		if err := keys.LoadDir(cfg.JWS.KeyDir); err != nil {
			return nil, nil, err
		}
		return jws.NewProvider(keys, pcfg), func() {}, nil

	default:
		repo, closeStore, err := loadRepository(ctx)
		if err != nil {
			return nil, nil, err
		}
		return token.NewProvider(repo, pcfg), closeStore, nil
	}
}
