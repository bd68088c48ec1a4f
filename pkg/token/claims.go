package token

import (
	"fmt"
	"time"
)

// Variant identifies which scope shape a token carries. On the wire it is the
// first byte of the encrypted plaintext, ahead of the payload it describes.
type Variant uint8

const (
	Unscoped      Variant = 0
	DomainScoped  Variant = 1
	ProjectScoped Variant = 2
	TrustScoped   Variant = 3
)

func (v Variant) String() string {
	switch v {
	case Unscoped:
		return "unscoped"
	case DomainScoped:
		return "domain-scoped"
	case ProjectScoped:
		return "project-scoped"
	case TrustScoped:
		return "trust-scoped"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// Claims is everything a token carries. Identifiers are 32-hex-digit strings;
// scope fields are empty when the token is not scoped to them. AuditIDs are
// 22-character URL-safe base64 strings and at least one is required.
type Claims struct {
	UserID    string
	ProjectID string
	DomainID  string
	TrustID   string
	ExpiresAt time.Time
	AuditIDs  []string
}

// Variant derives the scope shape from which fields are set. A trust id
// requires a project id; project and domain scope are mutually exclusive.
func (c Claims) Variant() (Variant, error) {
	switch {
	case c.TrustID != "":
		if c.ProjectID == "" || c.DomainID != "" {
			return 0, fmt.Errorf("%w: trust scope needs a project id and no domain id", ErrMalformedPayload)
		}
		return TrustScoped, nil
	case c.ProjectID != "" && c.DomainID != "":
		return 0, fmt.Errorf("%w: project and domain scope are mutually exclusive", ErrMalformedPayload)
	case c.ProjectID != "":
		return ProjectScoped, nil
	case c.DomainID != "":
		return DomainScoped, nil
	default:
		return Unscoped, nil
	}
}
