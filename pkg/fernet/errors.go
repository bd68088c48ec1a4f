package fernet

import "errors"

var (
	// ErrMalformedToken means the token text is not valid URL-safe base64 or
	// the decoded bytes do not have the envelope's shape.
	ErrMalformedToken = errors.New("fernet: malformed token")

	// ErrUnsupportedVersion means the envelope carries a version byte this
	// implementation does not understand.
	ErrUnsupportedVersion = errors.New("fernet: unsupported token version")

	// ErrInvalidToken means the envelope is well-formed but no repository key
	// authenticates it. Tampered and foreign tokens both land here.
	ErrInvalidToken = errors.New("fernet: invalid token")

	// ErrRepositoryUnavailable means the key repository's backing store is
	// missing or unreadable.
	ErrRepositoryUnavailable = errors.New("fernet: key repository unavailable")

	// ErrRepositoryEmpty means the backing store holds no keys at all.
	ErrRepositoryEmpty = errors.New("fernet: key repository empty")
)
