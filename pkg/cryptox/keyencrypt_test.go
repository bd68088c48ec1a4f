package cryptox_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tacksail/gatehouse/pkg/cryptox"
)

func TestEncryptDecryptKeyMaterial(t *testing.T) {
	passphrase := []byte("test-master-key-for-encryption-12345")
	material := cryptox.MustGenerateKeyMaterial()

	// Encrypt
	encrypted, err := cryptox.EncryptKeyMaterial(passphrase, material)
	require.NoError(t, err)
	require.NotEmpty(t, encrypted)
	require.NotEqual(t, material, encrypted, "encrypted data should differ from plaintext")

	// Decrypt
	decrypted, err := cryptox.DecryptKeyMaterial(passphrase, encrypted)
	require.NoError(t, err)
	require.Equal(t, material, decrypted, "decrypted data should match original")
}

func TestEncryptDecryptMultipleTimes(t *testing.T) {
	passphrase := []byte("test-master-key-multiple-times-xyz")
	material := []byte("sensitive-key-material-1234567890ab")

	// Encrypt multiple times - should produce different ciphertexts due to random nonce
	encrypted1, err := cryptox.EncryptKeyMaterial(passphrase, material)
	require.NoError(t, err)

	encrypted2, err := cryptox.EncryptKeyMaterial(passphrase, material)
	require.NoError(t, err)

	require.NotEqual(t, encrypted1, encrypted2, "multiple encryptions should produce different ciphertexts")

	// But both should decrypt to the same plaintext
	decrypted1, err := cryptox.DecryptKeyMaterial(passphrase, encrypted1)
	require.NoError(t, err)
	require.Equal(t, material, decrypted1)

	decrypted2, err := cryptox.DecryptKeyMaterial(passphrase, encrypted2)
	require.NoError(t, err)
	require.Equal(t, material, decrypted2)
}

func TestDecryptWrongPassphrase(t *testing.T) {
	material := []byte("key-material-under-test-000000000000")

	encrypted, err := cryptox.EncryptKeyMaterial([]byte("right-passphrase"), material)
	require.NoError(t, err)

	_, err = cryptox.DecryptKeyMaterial([]byte("wrong-passphrase"), encrypted)
	require.Error(t, err, "decrypting with the wrong passphrase should fail")
}

func TestDecryptTamperedData(t *testing.T) {
	passphrase := []byte("test-master-key-tampered")
	material := []byte("original-key-material")

	encrypted, err := cryptox.EncryptKeyMaterial(passphrase, material)
	require.NoError(t, err)

	// Tamper with the encrypted data
	tampered := make([]byte, len(encrypted))
	copy(tampered, encrypted)
	tampered[len(tampered)-1] ^= 0xFF // Flip bits in last byte

	// Decryption should fail due to authentication tag mismatch
	_, err = cryptox.DecryptKeyMaterial(passphrase, tampered)
	require.Error(t, err, "decrypting tampered data should fail")
}

func TestDecryptTooShort(t *testing.T) {
	// Data too short to contain nonce
	_, err := cryptox.DecryptKeyMaterial([]byte("test-master-key-short"), []byte("short"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "too short")
}

func TestEmptyPassphraseRejected(t *testing.T) {
	_, err := cryptox.EncryptKeyMaterial(nil, []byte("data"))
	require.ErrorIs(t, err, cryptox.ErrEmptyPassphrase)

	_, err = cryptox.DecryptKeyMaterial(nil, []byte("data"))
	require.ErrorIs(t, err, cryptox.ErrEmptyPassphrase)
}
