package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tacksail/gatehouse/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatehouse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, "fs", cfg.Keys.Backend)
	require.Equal(t, "fernet-keys", cfg.Keys.Dir)
	require.Equal(t, 3, cfg.Keys.MaxActive)
	require.Equal(t, "fernet", cfg.Token.Provider)
	require.Equal(t, "default", cfg.Token.DefaultDomainID)
	require.Equal(t, time.Hour, cfg.Token.Lifetime())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
keys:
  backend: sqlite
  database: /var/lib/gatehouse/keys.db
  max_active: 5
token:
  provider: jws
  default_domain_id: heritage
  expires_in: 30m
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "sqlite", cfg.Keys.Backend)
	require.Equal(t, "/var/lib/gatehouse/keys.db", cfg.Keys.Database)
	require.Equal(t, 5, cfg.Keys.MaxActive)
	require.Equal(t, "jws", cfg.Token.Provider)
	require.Equal(t, "heritage", cfg.Token.DefaultDomainID)
	require.Equal(t, 30*time.Minute, cfg.Token.Lifetime())

	// Fields the file does not mention keep their defaults.
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, "fernet-keys", cfg.Keys.Dir)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
keys:
  dir: /from/file
`)

	t.Setenv("GATEHOUSE_LOG_LEVEL", "error")
	t.Setenv("GATEHOUSE_KEYS_DIR", "/from/env")
	t.Setenv("GATEHOUSE_KEYS_MAX_ACTIVE", "7")
	t.Setenv("GATEHOUSE_TOKEN_EXPIRES_IN", "15m")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "error", cfg.Log.Level)
	require.Equal(t, "/from/env", cfg.Keys.Dir)
	require.Equal(t, 7, cfg.Keys.MaxActive)
	require.Equal(t, 15*time.Minute, cfg.Token.Lifetime())
}

func TestEnvIgnoresUnparsableInt(t *testing.T) {
	t.Setenv("GATEHOUSE_KEYS_MAX_ACTIVE", "many")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Keys.MaxActive)
}

func TestMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestBadYAML(t *testing.T) {
	path := writeConfig(t, "keys: [not: a, mapping")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown backend", content: "keys:\n  backend: etcd\n"},
		{name: "unknown provider", content: "token:\n  provider: saml\n"},
		{name: "negative max active", content: "keys:\n  max_active: -1\n"},
		{name: "unparsable lifetime", content: "token:\n  expires_in: soon\n"},
		{name: "zero lifetime", content: "token:\n  expires_in: 0s\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.content))
			require.Error(t, err)
		})
	}
}

func TestMasterKey(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "master.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("passphrase\n"), 0o600))

	cfg := config.KeysConfig{MasterKeyFile: keyFile}
	key, err := cfg.MasterKey()
	require.NoError(t, err)
	require.Equal(t, []byte("passphrase"), key)

	// Unconfigured means no wrapping.
	key, err = config.KeysConfig{}.MasterKey()
	require.NoError(t, err)
	require.Nil(t, key)

	// Empty and missing files are configuration mistakes.
	empty := filepath.Join(dir, "empty.key")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))
	_, err = config.KeysConfig{MasterKeyFile: empty}.MasterKey()
	require.Error(t, err)

	_, err = config.KeysConfig{MasterKeyFile: filepath.Join(dir, "gone.key")}.MasterKey()
	require.Error(t, err)
}
