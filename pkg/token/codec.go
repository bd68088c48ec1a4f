package token

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/tacksail/gatehouse/pkg/auditid"
)

// Fixed payload sizes per variant. Identifiers and audit ids are 16 bytes,
// the expiry 8, and every payload carries at least one audit id.
const (
	expSize = 8

	minUnscopedLen = idSize + expSize + idSize
	minScopedLen   = 2*idSize + expSize + idSize
	minTrustLen    = 2*idSize + expSize + 2*idSize
)

// The all-zero identifier is reserved: inside a domain-scoped payload it
// stands for the configured default domain.
var (
	zeroID  = make([]byte, idSize)
	zeroHex = strings.Repeat("0", 32)
)

func assembleUnscoped(c Claims) ([]byte, error) {
	payload := make([]byte, 0, minUnscopedLen+idSize*len(c.AuditIDs))
	payload, err := appendIdentifier(payload, c.UserID)
	if err != nil {
		return nil, err
	}
	payload = appendExpiry(payload, c.ExpiresAt)
	return appendAuditIDs(payload, c.AuditIDs)
}

func disassembleUnscoped(payload []byte) (Claims, error) {
	if len(payload) < minUnscopedLen {
		return Claims{}, fmt.Errorf("%w: %d bytes for an unscoped payload", ErrMalformedPayload, len(payload))
	}
	userID, err := bytesToIdentifier(payload[:idSize])
	if err != nil {
		return Claims{}, err
	}
	auditIDs, err := parseAuditSection(payload[idSize+expSize:])
	if err != nil {
		return Claims{}, err
	}
	return Claims{
		UserID:    userID,
		ExpiresAt: readExpiry(payload[idSize : idSize+expSize]),
		AuditIDs:  auditIDs,
	}, nil
}

func assembleDomainScoped(c Claims, defaultDomainID string) ([]byte, error) {
	payload := make([]byte, 0, minScopedLen+idSize*len(c.AuditIDs))
	payload, err := appendIdentifier(payload, c.UserID)
	if err != nil {
		return nil, err
	}
	domain, err := domainIDToBytes(c.DomainID, defaultDomainID)
	if err != nil {
		return nil, err
	}
	payload = append(payload, domain...)
	payload = appendExpiry(payload, c.ExpiresAt)
	return appendAuditIDs(payload, c.AuditIDs)
}

func disassembleDomainScoped(payload []byte, defaultDomainID string) (Claims, error) {
	if len(payload) < minScopedLen {
		return Claims{}, fmt.Errorf("%w: %d bytes for a domain-scoped payload", ErrMalformedPayload, len(payload))
	}
	userID, err := bytesToIdentifier(payload[:idSize])
	if err != nil {
		return Claims{}, err
	}
	domainID, err := bytesToDomainID(payload[idSize : 2*idSize], defaultDomainID)
	if err != nil {
		return Claims{}, err
	}
	auditIDs, err := parseAuditSection(payload[2*idSize+expSize:])
	if err != nil {
		return Claims{}, err
	}
	return Claims{
		UserID:    userID,
		DomainID:  domainID,
		ExpiresAt: readExpiry(payload[2*idSize : 2*idSize+expSize]),
		AuditIDs:  auditIDs,
	}, nil
}

func assembleProjectScoped(c Claims) ([]byte, error) {
	payload := make([]byte, 0, minScopedLen+idSize*len(c.AuditIDs))
	payload, err := appendIdentifier(payload, c.UserID)
	if err != nil {
		return nil, err
	}
	payload, err = appendIdentifier(payload, c.ProjectID)
	if err != nil {
		return nil, err
	}
	payload = appendExpiry(payload, c.ExpiresAt)
	return appendAuditIDs(payload, c.AuditIDs)
}

func disassembleProjectScoped(payload []byte) (Claims, error) {
	if len(payload) < minScopedLen {
		return Claims{}, fmt.Errorf("%w: %d bytes for a project-scoped payload", ErrMalformedPayload, len(payload))
	}
	userID, err := bytesToIdentifier(payload[:idSize])
	if err != nil {
		return Claims{}, err
	}
	projectID, err := bytesToIdentifier(payload[idSize : 2*idSize])
	if err != nil {
		return Claims{}, err
	}
	auditIDs, err := parseAuditSection(payload[2*idSize+expSize:])
	if err != nil {
		return Claims{}, err
	}
	return Claims{
		UserID:    userID,
		ProjectID: projectID,
		ExpiresAt: readExpiry(payload[2*idSize : 2*idSize+expSize]),
		AuditIDs:  auditIDs,
	}, nil
}

// Trust-scoped payloads carry the trust id as the final 16 bytes, after the
// audit id run.
func assembleTrustScoped(c Claims) ([]byte, error) {
	payload, err := assembleProjectScoped(c)
	if err != nil {
		return nil, err
	}
	return appendIdentifier(payload, c.TrustID)
}

func disassembleTrustScoped(payload []byte) (Claims, error) {
	if len(payload) < minTrustLen {
		return Claims{}, fmt.Errorf("%w: %d bytes for a trust-scoped payload", ErrMalformedPayload, len(payload))
	}
	trustID, err := bytesToIdentifier(payload[len(payload)-idSize:])
	if err != nil {
		return Claims{}, err
	}
	claims, err := disassembleProjectScoped(payload[:len(payload)-idSize])
	if err != nil {
		return Claims{}, err
	}
	claims.TrustID = trustID
	return claims, nil
}

func appendIdentifier(dst []byte, id string) ([]byte, error) {
	b, err := identifierToBytes(id)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

// appendExpiry writes big-endian signed unix seconds. Sub-second precision is
// dropped here; it does not survive the trip through a token.
func appendExpiry(dst []byte, t time.Time) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(t.Unix()))
}

func readExpiry(b []byte) time.Time {
	return time.Unix(int64(binary.BigEndian.Uint64(b)), 0).UTC()
}

func appendAuditIDs(dst []byte, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one audit id is required", ErrMalformedPayload)
	}
	for _, s := range ids {
		aid, err := auditid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: audit id %q", ErrMalformedPayload, s)
		}
		dst = append(dst, aid.Bytes()...)
	}
	return dst, nil
}

func parseAuditSection(section []byte) ([]string, error) {
	if len(section) == 0 || len(section)%idSize != 0 {
		return nil, fmt.Errorf("%w: audit section of %d bytes", ErrMalformedPayload, len(section))
	}
	ids := make([]string, 0, len(section)/idSize)
	for i := 0; i < len(section); i += idSize {
		aid, err := auditid.FromBytes(section[i : i+idSize])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		ids = append(ids, aid.String())
	}
	return ids, nil
}

// domainIDToBytes packs a domain id, mapping the configured default domain to
// the reserved all-zero value when it is not itself a hex identifier. A
// literal all-zero id is rejected to keep the reservation unambiguous.
func domainIDToBytes(id, defaultDomainID string) ([]byte, error) {
	if strings.ReplaceAll(id, "-", "") == zeroHex {
		return nil, fmt.Errorf("%w: the all-zero identifier is reserved", ErrMalformedIdentifier)
	}
	if b, err := identifierToBytes(id); err == nil {
		return b, nil
	}
	if id == defaultDomainID {
		return append([]byte(nil), zeroID...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrMalformedIdentifier, id)
}

func bytesToDomainID(b []byte, defaultDomainID string) (string, error) {
	if bytes.Equal(b, zeroID) {
		return defaultDomainID, nil
	}
	return bytesToIdentifier(b)
}
