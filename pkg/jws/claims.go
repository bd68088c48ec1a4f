package jws

import (
	"github.com/golang-jwt/jwt/v5"
)

// wireClaims is the JWT shape of token.Claims. The subject carries the user
// id; scope ids travel as short custom claims and are absent when the token
// is not scoped to them.
type wireClaims struct {
	jwt.RegisteredClaims

	// Project id, "prj" to keep clear of the registered "aud"/"sub" family.
	ProjectID string `json:"prj,omitempty"`

	// Domain id or the default domain's configured id.
	DomainID string `json:"dom,omitempty"`

	// Trust id, only ever alongside a project id.
	TrustID string `json:"tru,omitempty"`

	// Audit ids in issue order. At least one is always present.
	AuditIDs []string `json:"adt"`
}
