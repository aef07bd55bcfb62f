package authapi

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// IdentityStore is the persistence contract the orchestrators depend on.
// Implementations own atomicity: no two concurrent registrations may both
// succeed with the same normalized username. Lookups are case-insensitive,
// matching the normalization applied at registration.
type IdentityStore interface {
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)

	RoleExists(ctx context.Context, name string) (bool, error)
	CreateRole(ctx context.Context, name string) (*Role, error)
	GrantRole(ctx context.Context, userID uuid.UUID, roleName string) error

	GetClaims(ctx context.Context, userID uuid.UUID) ([]Claim, error)
	AddClaim(ctx context.Context, userID uuid.UUID, claim Claim) error
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// TransactionalStore is implemented by stores that can run multiple
// IdentityStore calls atomically. The registrar uses it when available so a
// user is never visible without its baseline claims.
type TransactionalStore interface {
	IdentityStore
	RunInStoreTx(ctx context.Context, fn func(ctx context.Context, store IdentityStore) error) error
}

// TokenIssuer mints signed bearer tokens for a subject and claim set
type TokenIssuer interface {
	Sign(subject string, claims []Claim) (string, error)
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenService issues and validates tokens with a shared configuration
type TokenService interface {
	TokenIssuer
	TokenValidator
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenValidity() int
	GetIssuer() string
	GetAudience() []string
	GetBcryptCost() int
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
