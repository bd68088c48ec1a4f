// Package fernet implements the versioned, authenticated token envelope used
// by the identity service, plus the rotating key repository behind it. A token
// is AES-256-CBC encrypted, HMAC-SHA256 authenticated, and rendered as
// URL-safe base64 without padding.
package fernet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"
)

// Version is the envelope version byte every token starts with.
const Version byte = 0x80

// Decoded envelope layout:
//
//	[0]      version byte (0x80)
//	[1:9]    creation time, big-endian signed unix seconds (informational)
//	[9:25]   AES-CBC initialisation vector
//	[25:n-32] ciphertext, PKCS#7 padded to the block size
//	[n-32:n] HMAC-SHA256 over everything before it
const (
	macSize   = sha256.Size
	headerLen = 1 + 8 + aes.BlockSize
	minLen    = headerLen + aes.BlockSize + macSize
)

// Cipher and MAC subkeys are expanded from the same key material under
// distinct info strings.
var (
	encInfo = []byte("gatehouse.fernet.enc.v1")
	macInfo = []byte("gatehouse.fernet.mac.v1")
)

var errBadPadding = errors.New("fernet: invalid padding")

var encoding = base64.RawURLEncoding.Strict()

// subkey expands key material into a purpose-bound 32-byte subkey.
func subkey(material, info []byte) ([]byte, error) {
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, material, nil, info), out); err != nil {
		return nil, fmt.Errorf("fernet: deriving subkey: %w", err)
	}
	return out, nil
}

// Seal encrypts and authenticates plaintext under key, stamping the envelope
// with now (truncated to whole seconds). The result is the URL-safe base64
// token text.
func Seal(plaintext []byte, key Key, now time.Time) (string, error) {
	if len(key.Material) != KeySize {
		return "", fmt.Errorf("fernet: key %d has %d-byte material, want %d", key.Index, len(key.Material), KeySize)
	}

	encKey, err := subkey(key.Material, encInfo)
	if err != nil {
		return "", err
	}
	macKey, err := subkey(key.Material, macInfo)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return "", fmt.Errorf("fernet: initialising cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("fernet: generating iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	envelope := make([]byte, 0, headerLen+len(ciphertext)+macSize)
	envelope = append(envelope, Version)
	envelope = binary.BigEndian.AppendUint64(envelope, uint64(now.Unix()))
	envelope = append(envelope, iv...)
	envelope = append(envelope, ciphertext...)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(envelope)
	envelope = mac.Sum(envelope)

	return encoding.EncodeToString(envelope), nil
}

// Open authenticates token against the candidate keys in order and decrypts
// it with the first key whose MAC verifies, returning the plaintext and the
// index of that key. Malformed text maps to ErrMalformedToken, an unknown
// version byte to ErrUnsupportedVersion, and a token no key authenticates to
// ErrInvalidToken.
func Open(token string, keys []Key) ([]byte, int, error) {
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return nil, 0, ErrMalformedToken
	}
	if len(raw) < minLen || (len(raw)-headerLen-macSize)%aes.BlockSize != 0 {
		return nil, 0, ErrMalformedToken
	}
	if raw[0] != Version {
		return nil, 0, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, raw[0])
	}

	body := raw[:len(raw)-macSize]
	sig := raw[len(raw)-macSize:]

	for _, key := range keys {
		if len(key.Material) != KeySize {
			continue
		}
		macKey, err := subkey(key.Material, macInfo)
		if err != nil {
			return nil, 0, err
		}
		mac := hmac.New(sha256.New, macKey)
		mac.Write(body)
		if !hmac.Equal(sig, mac.Sum(nil)) {
			continue
		}

		encKey, err := subkey(key.Material, encInfo)
		if err != nil {
			return nil, 0, err
		}
		block, err := aes.NewCipher(encKey)
		if err != nil {
			return nil, 0, fmt.Errorf("fernet: initialising cipher: %w", err)
		}

		iv := body[headerLen-aes.BlockSize : headerLen]
		plaintext := make([]byte, len(body)-headerLen)
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body[headerLen:])

		plaintext, err = pkcs7Unpad(plaintext, aes.BlockSize)
		if err != nil {
			return nil, 0, ErrInvalidToken
		}
		return plaintext, key.Index, nil
	}

	return nil, 0, ErrInvalidToken
}

// CreatedAt extracts the creation timestamp stamped into a token without
// authenticating it. Listing and debugging only; never trust the value for
// validity decisions.
func CreatedAt(token string) (time.Time, error) {
	raw, err := encoding.DecodeString(token)
	if err != nil || len(raw) < minLen {
		return time.Time{}, ErrMalformedToken
	}
	sec := int64(binary.BigEndian.Uint64(raw[1:9]))
	return time.Unix(sec, 0).UTC(), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, errBadPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, errBadPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errBadPadding
		}
	}
	return b[:len(b)-n], nil
}
