// Package session holds the in-memory authenticated session and the local
// decoding of its bearer token.
package session

import "github.com/golang-jwt/jwt/v5"

// Role is the access role self-asserted by the token payload.
type Role string

const (
	RoleUnknown     Role = ""
	RoleUser        Role = "user"
	RoleMaintenance Role = "maintenance"
	RoleSuperuser   Role = "superuser"
)

// DefaultSubject is the display name used when the token carries no usable
// subject claim.
const DefaultSubject = "unknown user"

// Identity is what the token payload asserts about its holder.
type Identity struct {
	Subject string
	Role    Role
}

// DecodeToken reads the token's self-asserted claims without verifying the
// signature. The result is a display and routing hint only, never a security
// boundary; authorization happens on the backend.
//
// DecodeToken never fails: on any malformed token (wrong segment count,
// invalid encoding, missing fields) it returns DefaultSubject and
// RoleUnknown. For a given token the result is deterministic.
func DecodeToken(token string) Identity {
	ident := Identity{Subject: DefaultSubject, Role: RoleUnknown}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ident
	}

	if sub, ok := claims["sub"].(string); ok && sub != "" {
		ident.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		switch Role(role) {
		case RoleUser, RoleMaintenance, RoleSuperuser:
			ident.Role = Role(role)
		}
	}

	return ident
}
