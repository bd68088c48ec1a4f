package auditid

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is the external form of an audit identifier: the URL-safe base64
// rendering of 16 bytes with the trailing padding stripped, always 22
// characters. The first audit id on a token names that token; later entries
// chain back to the token it was derived from.
type ID string

// Zero represents the zero value ID, don't use this unless its a placeholder.
const Zero ID = ""

// SizeBytes is the decoded width of every audit id.
const SizeBytes = 16

// EncodedLen is the length of the base64 form (16 bytes, no padding).
const EncodedLen = 22

// ErrInvalid reports a malformed audit id string.
var ErrInvalid = errors.New("auditid: invalid audit id")

var (
	globalOnce sync.Once
	global     *generator
)

// generator safely generates audit ids concurrently using a monotonic
// entropy source, so ids minted in the same millisecond still sort in
// creation order.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) New() ID {
	return g.NewAt(time.Now().UTC())
}

func (g *generator) NewAt(t time.Time) ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(t), g.entropy)
	return ID(base64.RawURLEncoding.EncodeToString(u.Bytes()))
}

func initGlobal() {
	src := ulid.Monotonic(rand.Reader, 0) // Max Monotonic Window
	global = &generator{entropy: src}
}

// New returns a fresh audit id using the current time in UTC and a monotonic
// entropy source. The underlying 16 bytes are a ULID, so chained audit ids
// are sortable by mint time.
func New() ID {
	globalOnce.Do(initGlobal)
	return global.New()
}

// NewAt generates an ID at the provided time (UTC), useful for tests.
func NewAt(t time.Time) ID {
	globalOnce.Do(initGlobal)
	return global.NewAt(t)
}

// Parse validates the 22-character base64 form and returns it as an ID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)

	if len(s) != EncodedLen {
		return Zero, ErrInvalid
	}

	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || len(b) != SizeBytes {
		return Zero, ErrInvalid
	}

	return ID(s), nil
}

// MustParse parses or panics. Useful for hard-coded ids in tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		// Panic here so we don't put the program into an unknown state
		panic(err)
	}
	return id
}

// FromBytes encodes raw 16-byte audit id material into its external form.
func FromBytes(b []byte) (ID, error) {
	if len(b) != SizeBytes {
		return Zero, ErrInvalid
	}
	return ID(base64.RawURLEncoding.EncodeToString(b)), nil
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Bytes returns the decoded 16-byte representation or nil for zero or
// malformed ids.
func (id ID) Bytes() []byte {
	if id.IsZero() {
		return nil
	}

	b, err := base64.RawURLEncoding.DecodeString(string(id))
	if err != nil || len(b) != SizeBytes {
		return nil
	}
	return b
}
