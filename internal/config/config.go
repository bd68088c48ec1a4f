// Package config loads gatehousectl configuration. Defaults come first, then
// the YAML file when one is given, then GATEHOUSE_* environment overrides, so
// a bare invocation always works and deployments can pin everything in a file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log   LogConfig   `yaml:"log"`
	Keys  KeysConfig  `yaml:"keys"`
	Token TokenConfig `yaml:"token"`
	JWS   JWSConfig   `yaml:"jws"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format"` // json, text (default: text)
	Env    string `yaml:"env"`    // dev, staging, prod (default: dev)
}

type KeysConfig struct {
	Backend       string `yaml:"backend"`         // fs, sqlite (default: fs)
	Dir           string `yaml:"dir"`             // fs backend key directory
	Database      string `yaml:"database"`        // sqlite backend database file
	MaxActive     int    `yaml:"max_active"`      // rotation bound, 0 keeps every key
	MasterKeyFile string `yaml:"master_key_file"` // optional passphrase file for at-rest wrapping (sqlite)
}

type TokenConfig struct {
	Provider        string `yaml:"provider"`          // fernet, jws (default: fernet)
	DefaultDomainID string `yaml:"default_domain_id"` // default: "default"
	ExpiresIn       string `yaml:"expires_in"`        // default token lifetime, e.g. "1h" (default: 1h)
}

type JWSConfig struct {
	KeyDir string `yaml:"key_dir"` // directory of *.pem signing keys
}

func defaults() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Env:    "dev",
		},
		Keys: KeysConfig{
			Backend:   "fs",
			Dir:       "fernet-keys",
			Database:  "gatehouse.db",
			MaxActive: 3,
		},
		Token: TokenConfig{
			Provider:        "fernet",
			DefaultDomainID: "default",
			ExpiresIn:       "1h",
		},
		JWS: JWSConfig{
			KeyDir: "jws-keys",
		},
	}
}

// Load builds the configuration. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Log.Level = getEnvOrDefault("GATEHOUSE_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("GATEHOUSE_LOG_FORMAT", c.Log.Format)
	c.Log.Env = getEnvOrDefault("GATEHOUSE_ENV", c.Log.Env)

	c.Keys.Backend = getEnvOrDefault("GATEHOUSE_KEYS_BACKEND", c.Keys.Backend)
	c.Keys.Dir = getEnvOrDefault("GATEHOUSE_KEYS_DIR", c.Keys.Dir)
	c.Keys.Database = getEnvOrDefault("GATEHOUSE_KEYS_DATABASE", c.Keys.Database)
	c.Keys.MaxActive = getEnvIntOrDefault("GATEHOUSE_KEYS_MAX_ACTIVE", c.Keys.MaxActive)
	c.Keys.MasterKeyFile = getEnvOrDefault("GATEHOUSE_MASTER_KEY_FILE", c.Keys.MasterKeyFile)

	c.Token.Provider = getEnvOrDefault("GATEHOUSE_TOKEN_PROVIDER", c.Token.Provider)
	c.Token.DefaultDomainID = getEnvOrDefault("GATEHOUSE_DEFAULT_DOMAIN_ID", c.Token.DefaultDomainID)
	c.Token.ExpiresIn = getEnvOrDefault("GATEHOUSE_TOKEN_EXPIRES_IN", c.Token.ExpiresIn)

	c.JWS.KeyDir = getEnvOrDefault("GATEHOUSE_JWS_KEY_DIR", c.JWS.KeyDir)
}

func (c *Config) validate() error {
	switch c.Keys.Backend {
	case "fs", "sqlite":
	default:
		return fmt.Errorf("config: keys.backend must be fs or sqlite, got %q", c.Keys.Backend)
	}

	switch c.Token.Provider {
	case "fernet", "jws":
	default:
		return fmt.Errorf("config: token.provider must be fernet or jws, got %q", c.Token.Provider)
	}

	if c.Keys.MaxActive < 0 {
		return fmt.Errorf("config: keys.max_active must not be negative, got %d", c.Keys.MaxActive)
	}

	d, err := time.ParseDuration(c.Token.ExpiresIn)
	if err != nil {
		return fmt.Errorf("config: token.expires_in: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("config: token.expires_in must be positive, got %s", c.Token.ExpiresIn)
	}
	return nil
}

// Lifetime returns the parsed default token lifetime. Load has already
// validated the field.
func (c TokenConfig) Lifetime() time.Duration {
	d, _ := time.ParseDuration(c.ExpiresIn)
	return d
}

// MasterKey reads the configured passphrase file. No file configured means
// no at-rest wrapping, which is not an error.
func (c KeysConfig) MasterKey() ([]byte, error) {
	if c.MasterKeyFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.MasterKeyFile)
	if err != nil {
		return nil, fmt.Errorf("config: read master key file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("config: master key file %s is empty", c.MasterKeyFile)
	}
	return data, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}
