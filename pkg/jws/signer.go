package jws

import (
	"crypto/ecdsa"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tacksail/gatehouse/pkg/cryptox"
)

// Signer holds one ES256 signing key under a key id. The kid travels in the
// token header so verification can find the matching public key.
type Signer struct {
	kid string
	key *ecdsa.PrivateKey
}

// NewSigner loads an ECDSA P-256 private key from PEM bytes as produced by
// cryptox.GenerateES256Key.
func NewSigner(kid string, pemKey []byte) (*Signer, error) {
	key, err := cryptox.ParseES256Key(pemKey)
	if err != nil {
		return nil, err
	}
	return &Signer{kid: kid, key: key}, nil
}

// KID returns the key id.
func (s *Signer) KID() string { return s.kid }

// Public returns the verification half of the key.
func (s *Signer) Public() *ecdsa.PublicKey { return &s.key.PublicKey }

func (s *Signer) sign(claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
