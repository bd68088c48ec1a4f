package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// KeyMaterialSize is the byte length of symmetric key material used for
// token sealing. 256 bits feeds the subkey derivation with a full-strength
// input.
const KeyMaterialSize = 32

// GenerateKeyMaterial creates cryptographically secure random key material.
// Returns an error if the random number generator fails.
func GenerateKeyMaterial() ([]byte, error) {
	buf := make([]byte, KeyMaterialSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate key material: %w", err)
	}
	return buf, nil
}

// MustGenerateKeyMaterial is like GenerateKeyMaterial but panics on error.
// Use this only during initialization or in contexts where failure is
// unrecoverable.
func MustGenerateKeyMaterial() []byte {
	material, err := GenerateKeyMaterial()
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate key material: %v", err))
	}
	return material
}

// Fingerprint returns a deterministic SHA-256 fingerprint of key material.
// This lets operators list and compare keys without the material itself ever
// being printed.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func Fingerprint(material []byte) string {
	sum := sha256.Sum256(material)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
