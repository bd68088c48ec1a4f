// Package jws is the signed token provider: the same claims the encrypted
// codec carries, issued as ES256 JWTs instead. Tokens are larger and their
// claims readable by anyone, but holders can verify them offline with only
// the public keys.
package jws

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tacksail/gatehouse/pkg/auditid"
	"github.com/tacksail/gatehouse/pkg/token"
)

// Provider issues and validates signed tokens against a key manager. It
// accepts exactly the claims the encrypted provider accepts, so the two are
// interchangeable behind configuration.
type Provider struct {
	keys            *KeyManager
	defaultDomainID string
	now             func() time.Time
}

// NewProvider wires a key manager with the shared provider configuration.
func NewProvider(keys *KeyManager, cfg token.Config) *Provider {
	if cfg.DefaultDomainID == "" {
		cfg.DefaultDomainID = "default"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Provider{
		keys:            keys,
		defaultDomainID: cfg.DefaultDomainID,
		now:             cfg.Now,
	}
}

// Issue signs claims under the current signing key. The sub-second part of
// ExpiresAt is dropped; the wire carries whole seconds.
func (p *Provider) Issue(claims token.Claims) (string, error) {
	if _, err := claims.Variant(); err != nil {
		return "", err
	}

	userID, err := token.NormalizeIdentifier(claims.UserID)
	if err != nil {
		return "", err
	}

	wc := wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(p.now()),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}

	if claims.ProjectID != "" {
		if wc.ProjectID, err = token.NormalizeIdentifier(claims.ProjectID); err != nil {
			return "", err
		}
	}
	if claims.DomainID != "" {
		if wc.DomainID, err = token.NormalizeDomainID(claims.DomainID, p.defaultDomainID); err != nil {
			return "", err
		}
	}
	if claims.TrustID != "" {
		if wc.TrustID, err = token.NormalizeIdentifier(claims.TrustID); err != nil {
			return "", err
		}
	}

	if err := checkAuditIDs(claims.AuditIDs); err != nil {
		return "", err
	}
	wc.AuditIDs = append([]string(nil), claims.AuditIDs...)

	signer, err := p.keys.Signer()
	if err != nil {
		return "", err
	}
	return signer.sign(wc)
}

// Validate verifies a signed token and returns its claims. Expiry is
// non-inclusive, matching the encrypted provider: a token whose expiry equals
// the current time is already expired.
func (p *Provider) Validate(text string) (token.Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(text, &wireClaims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid header")
		}
		pub, ok := p.keys.publicKey(kid)
		if !ok {
			return nil, fmt.Errorf("no key for kid %q", kid)
		}
		return pub, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return token.Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return token.Claims{}, token.ErrExpired
		default:
			return token.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	wc, ok := parsed.Claims.(*wireClaims)
	if !ok || !parsed.Valid {
		return token.Claims{}, ErrInvalidToken
	}
	return p.claimsFromWire(wc)
}

// claimsFromWire rebuilds token.Claims from verified wire claims, applying
// the same shape rules the encrypted codec enforces. The parser has already
// checked the signature and expiry by the time this runs.
func (p *Provider) claimsFromWire(wc *wireClaims) (token.Claims, error) {
	claims := token.Claims{
		ExpiresAt: wc.ExpiresAt.Time.UTC(),
		AuditIDs:  wc.AuditIDs,
	}

	var err error
	if claims.UserID, err = token.NormalizeIdentifier(wc.Subject); err != nil {
		return token.Claims{}, err
	}
	if wc.ProjectID != "" {
		if claims.ProjectID, err = token.NormalizeIdentifier(wc.ProjectID); err != nil {
			return token.Claims{}, err
		}
	}
	if wc.DomainID != "" {
		if claims.DomainID, err = token.NormalizeDomainID(wc.DomainID, p.defaultDomainID); err != nil {
			return token.Claims{}, err
		}
	}
	if wc.TrustID != "" {
		if claims.TrustID, err = token.NormalizeIdentifier(wc.TrustID); err != nil {
			return token.Claims{}, err
		}
	}

	if err := checkAuditIDs(claims.AuditIDs); err != nil {
		return token.Claims{}, err
	}
	if _, err := claims.Variant(); err != nil {
		return token.Claims{}, err
	}
	return claims, nil
}

func checkAuditIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one audit id is required", token.ErrMalformedPayload)
	}
	for _, s := range ids {
		if _, err := auditid.Parse(s); err != nil {
			return fmt.Errorf("%w: audit id %q", token.ErrMalformedPayload, s)
		}
	}
	return nil
}
