package jws

import "errors"

var (
	// ErrMalformedToken is returned when text is not a compact JWS at all.
	ErrMalformedToken = errors.New("jws: malformed token")

	// ErrInvalidToken is returned when a well-formed token fails signature
	// verification or names a key this manager has never seen.
	ErrInvalidToken = errors.New("jws: invalid token")

	// ErrNoSigningKey is returned when every key has been retired and the
	// manager can only verify.
	ErrNoSigningKey = errors.New("jws: no signing key")

	// ErrDuplicateKey is returned when a key id is added twice.
	ErrDuplicateKey = errors.New("jws: duplicate key id")

	// ErrUnknownKey is returned when retiring a key id that is not active.
	ErrUnknownKey = errors.New("jws: unknown key id")
)
