package authapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Well-known claim types. Types and values are opaque strings everywhere
// else in the package; these constants only name the ones the core itself
// emits or inspects.
const (
	// ClaimTypeUser is the baseline claim every registered account carries
	ClaimTypeUser = "User"
	// ClaimTypeName carries the normalized username
	ClaimTypeName = "name"
	// ClaimTypeEmail carries the account email
	ClaimTypeEmail = "email"
	// ClaimTypeRole is synthesized from role membership at token-build time
	ClaimTypeRole = "role"
	// ClaimTypeAdmin satisfies the built-in Admins policy
	ClaimTypeAdmin = "Admin"
)

// Claim is a typed assertion about a user. Duplicate (type, value) pairs
// are tolerated; nothing in the core deduplicates.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// BaselineClaims returns the claim set assigned to a user at registration
func BaselineClaims(username, email string) []Claim {
	return []Claim{
		{Type: ClaimTypeUser, Value: "true"},
		{Type: ClaimTypeName, Value: username},
		{Type: ClaimTypeEmail, Value: email},
	}
}

// BuildClaims assembles the canonical claim set for a token: the stored
// claims in insertion order followed by one role claim per role name. Pure,
// no dedupe, no side effects.
func BuildClaims(stored []Claim, roles []string) []Claim {
	claims := make([]Claim, 0, len(stored)+len(roles))
	claims = append(claims, stored...)
	for _, role := range roles {
		claims = append(claims, Claim{Type: ClaimTypeRole, Value: role})
	}
	return claims
}

// AuthClaims is the read surface recovered from a validated token
type AuthClaims interface {
	Subject() string
	UserID() string
	ClaimSet() []Claim
	HasClaimType(claimType string) bool
	HasClaim(claimType, value string) bool
	ClaimValue(claimType string) (string, bool)
	Expires() time.Time
	NotBefore() time.Time
	IssuedAt() time.Time
}

// TokenClaims is the concrete claim payload signed into tokens
type TokenClaims struct {
	jwt.RegisteredClaims
	UID    string  `json:"uid,omitempty"`
	Claims []Claim `json:"claims,omitempty"`
}

var _ AuthClaims = (*TokenClaims)(nil)

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// ClaimSet returns the embedded claim set unchanged
func (c *TokenClaims) ClaimSet() []Claim {
	return c.Claims
}

// HasClaimType checks for any claim of the given type, value irrelevant
func (c *TokenClaims) HasClaimType(claimType string) bool {
	for _, claim := range c.Claims {
		if claim.Type == claimType {
			return true
		}
	}
	return false
}

// HasClaim checks for an exact (type, value) pair
func (c *TokenClaims) HasClaim(claimType, value string) bool {
	for _, claim := range c.Claims {
		if claim.Type == claimType && claim.Value == value {
			return true
		}
	}
	return false
}

// ClaimValue returns the value of the first claim of the given type
func (c *TokenClaims) ClaimValue(claimType string) (string, bool) {
	for _, claim := range c.Claims {
		if claim.Type == claimType {
			return claim.Value, true
		}
	}
	return "", false
}

// Username returns the name claim if present
func (c *TokenClaims) Username() string {
	v, _ := c.ClaimValue(ClaimTypeName)
	return v
}

// Email returns the email claim if present
func (c *TokenClaims) Email() string {
	v, _ := c.ClaimValue(ClaimTypeEmail)
	return v
}

// Roles returns every role claim value in order
func (c *TokenClaims) Roles() []string {
	var roles []string
	for _, claim := range c.Claims {
		if claim.Type == ClaimTypeRole {
			roles = append(roles, claim.Value)
		}
	}
	return roles
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// NotBefore returns the activation time
func (c *TokenClaims) NotBefore() time.Time {
	if c.RegisteredClaims.NotBefore != nil {
		return c.RegisteredClaims.NotBefore.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
