package authapi

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NormalizeUsername case-folds and trims an identifier before comparison or
// storage. Usernames in this system are lowercased emails.
func NormalizeUsername(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// User is the user model. Username is the normalized (lowercased) email and
// is unique case-insensitively by construction. PasswordHash never leaves
// the store layer.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Role is a named group referenced by zero or more users
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// UserClaim is a persisted (type, value) claim attached to a user. Role
// membership is not stored here; role claims are synthesized at token-build
// time from UserRoleMembership rows.
type UserClaim struct {
	bun.BaseModel `bun:"table:user_claims,alias:ucl"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	ClaimType     string     `bun:"claim_type,notnull" json:"claim_type,omitempty"`
	ClaimValue    string     `bun:"claim_value,notnull" json:"claim_value,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Claim converts the row into the wire-level claim pair
func (c *UserClaim) Claim() Claim {
	return Claim{Type: c.ClaimType, Value: c.ClaimValue}
}

// UserRoleMembership joins users to roles
type UserRoleMembership struct {
	bun.BaseModel `bun:"table:user_roles,alias:url"`
	UserID        uuid.UUID `bun:"user_id,pk,type:uuid" json:"user_id,omitempty"`
	RoleID        uuid.UUID `bun:"role_id,pk,type:uuid" json:"role_id,omitempty"`
	Role          *Role     `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
}
