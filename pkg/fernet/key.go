package fernet

// KeySize is the length of raw key material in bytes.
const KeySize = 32

// Key is one entry in the key repository. Indexes order the keys: index 0 is
// the bootstrap key written at setup time, and the highest index is the
// primary used to seal new tokens. Material is never logged or serialized
// outside a Store.
type Key struct {
	Index    int
	Material []byte
}
