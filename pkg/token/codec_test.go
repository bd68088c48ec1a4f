package token

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tacksail/gatehouse/pkg/auditid"
)

const (
	testUserID    = "8a6e0804c9e44f269c749c9d3a9f4f72"
	testProjectID = "f10a1e028c4a4cbdbd231a06b95e1b3e"
	testTrustID   = "6d4330219d5d48cd92eeb0e0ad2b3a9d"
)

var testExpiry = time.Unix(2051222645, 0).UTC()

func testAuditIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = auditid.New().String()
	}
	return ids
}

func TestUnscopedLayout(t *testing.T) {
	claims := Claims{UserID: testUserID, ExpiresAt: testExpiry, AuditIDs: testAuditIDs(1)}

	payload, err := assembleUnscoped(claims)
	require.NoError(t, err)
	require.Len(t, payload, minUnscopedLen)

	// User id fills the first 16 bytes, expiry the 8 after it.
	id, err := bytesToIdentifier(payload[:idSize])
	require.NoError(t, err)
	require.Equal(t, testUserID, id)
	require.Equal(t, uint64(testExpiry.Unix()), binary.BigEndian.Uint64(payload[idSize:idSize+expSize]))

	got, err := disassembleUnscoped(payload)
	require.NoError(t, err)
	require.Equal(t, claims, got)
}

func TestScopedLayouts(t *testing.T) {
	t.Run("project", func(t *testing.T) {
		claims := Claims{UserID: testUserID, ProjectID: testProjectID, ExpiresAt: testExpiry, AuditIDs: testAuditIDs(2)}

		payload, err := assembleProjectScoped(claims)
		require.NoError(t, err)
		require.Len(t, payload, 2*idSize+expSize+2*idSize)

		id, err := bytesToIdentifier(payload[idSize : 2*idSize])
		require.NoError(t, err)
		require.Equal(t, testProjectID, id)

		got, err := disassembleProjectScoped(payload)
		require.NoError(t, err)
		require.Equal(t, claims, got)
	})

	t.Run("trust id trails the audit run", func(t *testing.T) {
		claims := Claims{UserID: testUserID, ProjectID: testProjectID, TrustID: testTrustID, ExpiresAt: testExpiry, AuditIDs: testAuditIDs(3)}

		payload, err := assembleTrustScoped(claims)
		require.NoError(t, err)
		require.Len(t, payload, 2*idSize+expSize+3*idSize+idSize)

		id, err := bytesToIdentifier(payload[len(payload)-idSize:])
		require.NoError(t, err)
		require.Equal(t, testTrustID, id)

		got, err := disassembleTrustScoped(payload)
		require.NoError(t, err)
		require.Equal(t, claims, got)
	})
}

func TestDomainSentinel(t *testing.T) {
	claims := Claims{UserID: testUserID, DomainID: "default", ExpiresAt: testExpiry, AuditIDs: testAuditIDs(1)}

	payload, err := assembleDomainScoped(claims, "default")
	require.NoError(t, err)
	require.Equal(t, zeroID, payload[idSize : 2*idSize], "default domain should encode as the reserved all-zero value")

	got, err := disassembleDomainScoped(payload, "default")
	require.NoError(t, err)
	require.Equal(t, claims, got)
}

func TestDomainHexNeverUsesSentinel(t *testing.T) {
	// A domain id that is itself hex encodes literally, even when the
	// deployment also knows it as the default.
	hexDomain := "c5e1b7a2f3d94f0e8b1a2c3d4e5f6071"
	claims := Claims{UserID: testUserID, DomainID: hexDomain, ExpiresAt: testExpiry, AuditIDs: testAuditIDs(1)}

	payload, err := assembleDomainScoped(claims, hexDomain)
	require.NoError(t, err)
	require.NotEqual(t, zeroID, payload[idSize : 2*idSize])

	got, err := disassembleDomainScoped(payload, hexDomain)
	require.NoError(t, err)
	require.Equal(t, hexDomain, got.DomainID)
}

func TestDomainRejectsUnknownName(t *testing.T) {
	claims := Claims{UserID: testUserID, DomainID: "staging", ExpiresAt: testExpiry, AuditIDs: testAuditIDs(1)}
	_, err := assembleDomainScoped(claims, "default")
	require.ErrorIs(t, err, ErrMalformedIdentifier)
}

func TestDomainRejectsReservedZeroID(t *testing.T) {
	claims := Claims{UserID: testUserID, DomainID: zeroHex, ExpiresAt: testExpiry, AuditIDs: testAuditIDs(1)}
	_, err := assembleDomainScoped(claims, "default")
	require.ErrorIs(t, err, ErrMalformedIdentifier)
}

func TestAssembleAuditValidation(t *testing.T) {
	claims := Claims{UserID: testUserID, ExpiresAt: testExpiry}

	_, err := assembleUnscoped(claims)
	require.ErrorIs(t, err, ErrMalformedPayload, "no audit ids")

	claims.AuditIDs = []string{"not-a-valid-audit-id"}
	_, err = assembleUnscoped(claims)
	require.ErrorIs(t, err, ErrMalformedPayload, "malformed audit id")
}

func TestDisassembleShapeChecks(t *testing.T) {
	domain := func(b []byte) (Claims, error) { return disassembleDomainScoped(b, "default") }

	tests := []struct {
		name string
		fn   func([]byte) (Claims, error)
		n    int
	}{
		{name: "unscoped short", fn: disassembleUnscoped, n: minUnscopedLen - 1},
		{name: "unscoped ragged audit run", fn: disassembleUnscoped, n: minUnscopedLen + 1},
		{name: "domain short", fn: domain, n: minScopedLen - 1},
		{name: "domain ragged audit run", fn: domain, n: minScopedLen + 1},
		{name: "project short", fn: disassembleProjectScoped, n: minScopedLen - 1},
		{name: "trust short", fn: disassembleTrustScoped, n: minTrustLen - 1},
		{name: "trust ragged audit run", fn: disassembleTrustScoped, n: minTrustLen + 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fn(make([]byte, tc.n))
			require.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}
