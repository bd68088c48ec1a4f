package token

import "errors"

var (
	// ErrMalformedIdentifier means an identifier is not 32 hex digits (dashes
	// allowed) and is not the configured default domain id.
	ErrMalformedIdentifier = errors.New("token: malformed identifier")

	// ErrMalformedTimestamp means a timestamp string does not match the single
	// layout tokens use.
	ErrMalformedTimestamp = errors.New("token: malformed timestamp")

	// ErrMalformedPayload means a decrypted payload does not have the shape
	// its variant requires, or claims cannot be assembled into one.
	ErrMalformedPayload = errors.New("token: malformed payload")

	// ErrExpired means the token was valid but its expiry has passed.
	ErrExpired = errors.New("token: expired")

	// ErrNotImplemented is returned by the legacy token surface.
	ErrNotImplemented = errors.New("token: not implemented")
)
