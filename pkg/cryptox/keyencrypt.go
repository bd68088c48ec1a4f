package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyPassphrase reports an attempt to wrap or unwrap key material
// without a passphrase.
var ErrEmptyPassphrase = errors.New("cryptox: empty passphrase")

// deriveWrappingKey turns an operator-supplied passphrase of any length into
// a 32-byte AES-256 key.
func deriveWrappingKey(passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	hash := sha256.Sum256(passphrase)
	return hash[:], nil
}

// EncryptKeyMaterial encrypts key material at rest using AES-256-GCM under a
// key derived from the given passphrase.
// The output format is: [12-byte nonce][encrypted data][16-byte auth tag]
// This ensures authenticated encryption with a random nonce per encryption.
func EncryptKeyMaterial(passphrase, plaintext []byte) ([]byte, error) {
	key, err := deriveWrappingKey(passphrase)
	if err != nil {
		return nil, err
	}

	// Create AES-256 cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create cipher: %w", err)
	}

	// Create GCM mode (provides authentication)
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create GCM: %w", err)
	}

	// Generate random nonce
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate nonce: %w", err)
	}

	// gcm.Seal appends the ciphertext and auth tag to nonce
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptKeyMaterial decrypts data encrypted with EncryptKeyMaterial.
// Expects format: [12-byte nonce][encrypted data][16-byte auth tag]
func DecryptKeyMaterial(passphrase, encrypted []byte) ([]byte, error) {
	key, err := deriveWrappingKey(passphrase)
	if err != nil {
		return nil, err
	}

	// Create AES-256 cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create cipher: %w", err)
	}

	// Create GCM mode
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encrypted) < nonceSize {
		return nil, fmt.Errorf("cryptox: ciphertext too short")
	}

	// Extract nonce and ciphertext
	nonce, ciphertext := encrypted[:nonceSize], encrypted[nonceSize:]

	// Decrypt and verify authentication tag
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptox: decryption failed: %w", err)
	}

	return plaintext, nil
}
