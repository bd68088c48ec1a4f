// Package token is the compact token codec for the identity service: claims
// go in, authenticated token text comes out, and back again. The encrypted
// payload is a fixed binary layout selected by a one-byte variant
// discriminator; the envelope around it lives in pkg/fernet.
package token

import (
	"fmt"
	"time"

	"github.com/tacksail/gatehouse/pkg/fernet"
)

// Config carries the provider's explicit dependencies. There is no package
// state; two providers with different configs coexist fine.
type Config struct {
	// DefaultDomainID is the identifier the reserved all-zero domain value
	// encodes and decodes to. Empty means "default", matching the usual
	// deployment.
	DefaultDomainID string

	// Now supplies the clock for expiry checks and the envelope timestamp.
	// Defaults to time.Now.
	Now func() time.Time
}

// Provider issues and validates tokens against a key repository.
type Provider struct {
	repo            *fernet.Repository
	defaultDomainID string
	now             func() time.Time
}

func NewProvider(repo *fernet.Repository, cfg Config) *Provider {
	if cfg.DefaultDomainID == "" {
		cfg.DefaultDomainID = "default"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Provider{
		repo:            repo,
		defaultDomainID: cfg.DefaultDomainID,
		now:             cfg.Now,
	}
}

// Issue seals claims into a token under the repository's primary key. The
// sub-second part of ExpiresAt is dropped; the wire carries whole seconds.
func (p *Provider) Issue(claims Claims) (string, error) {
	variant, err := claims.Variant()
	if err != nil {
		return "", err
	}

	var payload []byte
	switch variant {
	case Unscoped:
		payload, err = assembleUnscoped(claims)
	case DomainScoped:
		payload, err = assembleDomainScoped(claims, p.defaultDomainID)
	case ProjectScoped:
		payload, err = assembleProjectScoped(claims)
	case TrustScoped:
		payload, err = assembleTrustScoped(claims)
	}
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, 0, 1+len(payload))
	plaintext = append(plaintext, byte(variant))
	plaintext = append(plaintext, payload...)

	return fernet.Seal(plaintext, p.repo.Primary(), p.now())
}

// Validate opens a token against every repository key, newest first, and
// returns its claims. Envelope failures come back unchanged (ErrInvalidToken
// and friends), so callers can tell a forged token from an expired one.
// Expiry is non-inclusive: a token whose expiry equals the current time is
// already expired.
func (p *Provider) Validate(text string) (Claims, error) {
	plaintext, _, err := fernet.Open(text, p.repo.All())
	if err != nil {
		return Claims{}, err
	}
	if len(plaintext) == 0 {
		return Claims{}, fmt.Errorf("%w: empty plaintext", ErrMalformedPayload)
	}

	variant := Variant(plaintext[0])
	payload := plaintext[1:]

	var claims Claims
	switch variant {
	case Unscoped:
		claims, err = disassembleUnscoped(payload)
	case DomainScoped:
		claims, err = disassembleDomainScoped(payload, p.defaultDomainID)
	case ProjectScoped:
		claims, err = disassembleProjectScoped(payload)
	case TrustScoped:
		claims, err = disassembleTrustScoped(payload)
	default:
		return Claims{}, fmt.Errorf("%w: unknown variant 0x%02x", ErrMalformedPayload, plaintext[0])
	}
	if err != nil {
		return Claims{}, err
	}

	if !claims.ExpiresAt.After(p.now()) {
		return Claims{}, ErrExpired
	}
	return claims, nil
}

// IssueLegacy covers the pre-compact token formats this service once had.
// They are not emulated; the call always fails with ErrNotImplemented.
func (p *Provider) IssueLegacy(Claims) (string, error) {
	return "", ErrNotImplemented
}

// ValidateLegacy is the validation side of the pre-compact formats. Like
// IssueLegacy it always fails with ErrNotImplemented.
func (p *Provider) ValidateLegacy(string) (Claims, error) {
	return Claims{}, ErrNotImplemented
}
