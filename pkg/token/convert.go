package token

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// idSize is the wire size of one identifier, and of one audit id.
const idSize = 16

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// identifierToBytes packs a 32-hex-digit identifier into its 16 raw bytes.
// Dashed UUID forms are accepted and the dashes dropped; uppercase is not.
func identifierToBytes(id string) ([]byte, error) {
	normalized := strings.ReplaceAll(id, "-", "")
	if len(normalized) != 32 || normalized != strings.ToLower(normalized) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
	}
	b, err := hex.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
	}
	return b, nil
}

// bytesToIdentifier renders 16 raw bytes as the canonical dashless lowercase
// hex identifier. Exact inverse of identifierToBytes for canonical input.
func bytesToIdentifier(b []byte) (string, error) {
	if len(b) != idSize {
		return "", fmt.Errorf("%w: %d raw bytes", ErrMalformedIdentifier, len(b))
	}
	return hex.EncodeToString(b), nil
}

// NormalizeIdentifier validates an identifier and returns its canonical
// dashless form. Every provider accepts what this function accepts, so it is
// also the place to pre-check operator input.
func NormalizeIdentifier(id string) (string, error) {
	b, err := identifierToBytes(id)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NormalizeDomainID validates a domain reference the way tokens carry them:
// either a 32-hex-digit identifier or the configured default domain's id
// verbatim. The all-zero identifier is reserved and rejected.
func NormalizeDomainID(id, defaultDomainID string) (string, error) {
	b, err := domainIDToBytes(id, defaultDomainID)
	if err != nil {
		return "", err
	}
	return bytesToDomainID(b, defaultDomainID)
}

// ParseTimestamp reads the single timestamp form used around tokens:
// ISO 8601 UTC with a microsecond field, e.g. 2035-01-02T03:04:05.000000Z.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t.UTC(), nil
}

// FormatTimestamp renders t in the form ParseTimestamp reads. Tokens carry
// whole seconds only, so a decoded expiry always formats with a zero
// microsecond field.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
