package jws

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// KeyManager holds the signing keys for the signed token provider. Active
// keys can sign; every key ever added keeps verifying, so retiring a key
// never cuts off tokens already in flight.
//
// The most recently added active key signs new tokens. All methods are safe
// for concurrent use.
type KeyManager struct {
	mu     sync.RWMutex
	active []*Signer
	pub    map[string]*ecdsa.PublicKey
}

// NewKeyManager returns an empty KeyManager.
func NewKeyManager() *KeyManager {
	return &KeyManager{
		pub: make(map[string]*ecdsa.PublicKey),
	}
}

// Add registers a PEM-encoded ES256 private key under kid and makes it the
// signing key.
func (m *KeyManager) Add(kid string, pemKey []byte) error {
	signer, err := NewSigner(kid, pemKey)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pub[kid]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, kid)
	}
	m.active = append(m.active, signer)
	m.pub[kid] = signer.Public()
	return nil
}

// Retire removes a key from signing. Its public half stays registered so
// tokens it signed keep verifying. Retiring the last active key leaves a
// verify-only manager.
func (m *KeyManager) Retire(kid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.active {
		if s.KID() == kid {
			m.active = append(m.active[:i], m.active[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, kid)
}

// Signer returns the current signing key, the most recently added active one.
func (m *KeyManager) Signer() (*Signer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.active) == 0 {
		return nil, ErrNoSigningKey
	}
	return m.active[len(m.active)-1], nil
}

// Active returns the kids allowed to sign, oldest first.
func (m *KeyManager) Active() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kids := make([]string, len(m.active))
	for i, s := range m.active {
		kids[i] = s.KID()
	}
	return kids
}

// Known returns every kid this manager can verify, sorted.
func (m *KeyManager) Known() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kids := make([]string, 0, len(m.pub))
	for kid := range m.pub {
		kids = append(kids, kid)
	}
	sort.Strings(kids)
	return kids
}

func (m *KeyManager) publicKey(kid string) (*ecdsa.PublicKey, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pub, ok := m.pub[kid]
	return pub, ok
}

// LoadDir adds every *.pem file in dir, kid taken from the file name.
// Integer-named files load in numeric order so the highest index signs;
// anything else loads in name order after them. Other directory entries are
// ignored.
func (m *KeyManager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("jws: read key directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pem") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Slice(names, func(i, j int) bool { return keyFileLess(names[i], names[j]) })

	for _, name := range names {
		pemKey, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("jws: read key file %q: %w", name, err)
		}
		kid := strings.TrimSuffix(name, ".pem")
		if err := m.Add(kid, pemKey); err != nil {
			return fmt.Errorf("jws: load key %q: %w", name, err)
		}
	}
	return nil
}

// keyFileLess orders integer-named key files numerically and everything else
// lexically after them, so "10.pem" loads after "9.pem".
func keyFileLess(a, b string) bool {
	ai, aErr := strconv.Atoi(strings.TrimSuffix(a, ".pem"))
	bi, bErr := strconv.Atoi(strings.TrimSuffix(b, ".pem"))
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
