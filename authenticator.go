package authapi

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Auther composes the identity store, the credential hasher, the claims
// builder, and the token service into the login flow.
type Auther struct {
	store          IdentityStore
	tokenService   TokenService
	tokenValidator TokenValidator
	logger         Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store IdentityStore, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenValidity(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		store:        store,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService swaps the token service, mainly so tests can inject a
// fixed clock.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithTokenValidator sets a custom token validator for externally issued tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and mints a token for the user's claim set.
// Lookup miss and password mismatch are indistinguishable from outside:
// both return ErrInvalidCredentials.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	payload := LoginPayload{Username: identifier, Password: password}
	if err := payload.Validate(); err != nil {
		return "", ErrInvalidCredentials
	}

	user, err := s.store.FindUserByUsername(ctx, NormalizeUsername(identifier))
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Debug("login lookup miss", "identifier", identifier)
			return "", ErrInvalidCredentials
		}
		s.logger.Error("login user lookup failed", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Debug("login password mismatch", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		s.logger.Error("login token issuance failed", "error", err)
		return "", err
	}

	return token, nil
}

// ClaimsFromToken validates a presented token and recovers its claim set.
// Every protected operation goes through here before policy evaluation.
func (s *Auther) ClaimsFromToken(raw string) (AuthClaims, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.logger.Debug("token validation failed", "error", err)
		return nil, err
	}

	return claims, nil
}

// issueToken builds the canonical claim set (stored claims then one role
// claim per role) and signs it.
func (s *Auther) issueToken(ctx context.Context, user *User) (string, error) {
	stored, err := s.store.GetClaims(ctx, user.ID)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user claims")
	}

	roles, err := s.store.GetRoles(ctx, user.ID)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user roles")
	}

	return s.tokenService.Sign(user.ID.String(), BuildClaims(stored, roles))
}
