package authapi

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced alongside error categories so API clients can branch
// without matching on message strings.
const (
	TextCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	TextCodePasswordMismatch    = "PASSWORD_MISMATCH"
	TextCodeEmptyPassword       = "EMPTY_PASSWORD"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenNotYetValid    = "TOKEN_NOT_YET_VALID"
	TextCodeTokenBadSignature   = "TOKEN_BAD_SIGNATURE"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeDuplicateIdentity   = "DUPLICATE_IDENTITY"
	TextCodeDuplicateRole       = "DUPLICATE_ROLE"
	TextCodePolicyNotRegistered = "POLICY_NOT_REGISTERED"
	TextCodePolicyDenied        = "POLICY_DENIED"
	TextCodeClaimsNotAssigned   = "CLAIMS_NOT_ASSIGNED"
	TextCodeMissingSigningKey   = "MISSING_SIGNING_KEY"
)

// ErrInvalidCredentials is the only authentication failure the login flow
// exposes. A missing user and a wrong password both map here so callers
// cannot tell which half failed.
var ErrInvalidCredentials = goerrors.New("incorrect username or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials)

// ErrMismatchedHashAndPassword is the hasher-level mismatch signal. The
// login orchestrator translates it to ErrInvalidCredentials before it
// leaves the package.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match hash", goerrors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrTokenExpired is returned when a token's expiry is in the past
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenNotYetValid is returned when a token's not-before is in the future
var ErrTokenNotYetValid = goerrors.New("token is not valid yet", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenNotYetValid)

// ErrTokenBadSignature is returned when the signature does not verify
// against the configured signing key.
var ErrTokenBadSignature = goerrors.New("token signature is invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature)

// ErrTokenMalformed is returned for tokens that fail structural parsing
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrDuplicateIdentity is returned when registration collides with an
// existing normalized username or email.
var ErrDuplicateIdentity = goerrors.New("an account with that email already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateIdentity)

// ErrDuplicateRole is returned when creating a role that already exists
var ErrDuplicateRole = goerrors.New("role already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateRole)

// ErrPolicyNotRegistered signals a deployment defect: an operation is
// guarded by a policy nobody registered. It is distinct from a denial and
// never exposed to callers in detail.
var ErrPolicyNotRegistered = goerrors.New("authorization policy is not registered", goerrors.CategoryInternal).
	WithTextCode(TextCodePolicyNotRegistered)

// ErrPolicyDenied is the normal authorization denial
var ErrPolicyDenied = goerrors.New("operation not permitted", goerrors.CategoryAuthz).
	WithTextCode(TextCodePolicyDenied)

// ErrMissingSigningKey aborts startup when no symmetric key is configured
var ErrMissingSigningKey = goerrors.New("token signing key is not configured", goerrors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for structurally invalid tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsConflictError reports whether err carries the conflict category
func IsConflictError(err error) bool {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Category == goerrors.CategoryConflict
	}
	return false
}

// IsValidationError reports whether err carries the validation category
func IsValidationError(err error) bool {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Category == goerrors.CategoryValidation
	}
	return false
}
