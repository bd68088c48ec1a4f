// Package main provides gatehousectl, the operator CLI for the gatehouse
// token service.
//
// gatehousectl manages the symmetric key repository that seals tokens, issues
// and validates tokens directly for debugging and provisioning, and generates
// signing keys for the JWS provider.
//
// # Quick Start
//
//	# Create the key repository and bootstrap key 0
//	gatehousectl keys setup
//
//	# Issue a project-scoped token
//	gatehousectl token issue \
//	    --user 8a6e0804c9e44f269c749c9d3a9f4f72 \
//	    --project f10a1e028c4a4cbdbd231a06b95e1b3e
//
//	# Validate it again
//	gatehousectl token validate <token>
//
//	# Rotate keys, keeping at most three active
//	gatehousectl keys rotate --max-active 3
//
//	# Follow repository changes made by another process
//	gatehousectl keys watch
//
// # Configuration
//
// Configuration comes from defaults, then an optional YAML file (--config),
// then GATEHOUSE_* environment variables:
//
//   - GATEHOUSE_KEYS_BACKEND: key store backend, fs or sqlite (default: fs)
//   - GATEHOUSE_KEYS_DIR: key directory for the fs backend
//   - GATEHOUSE_KEYS_DATABASE: database file for the sqlite backend
//   - GATEHOUSE_KEYS_MAX_ACTIVE: rotation bound, 0 keeps every key
//   - GATEHOUSE_TOKEN_PROVIDER: token provider, fernet or jws (default: fernet)
//   - GATEHOUSE_DEFAULT_DOMAIN_ID: id carried by the reserved domain value
//   - GATEHOUSE_LOG_LEVEL: log level (debug, info, warn, error)
//   - GATEHOUSE_LOG_FORMAT: log format (json, text)
//
// Logs go to stderr; command output (tokens, claims, key listings) goes to
// stdout.
package main
