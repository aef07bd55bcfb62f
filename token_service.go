package authapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenServiceImpl implements the TokenService interface. Issuance and
// validation are pure computations over the inputs and the configured key;
// instances are safe for concurrent use.
type TokenServiceImpl struct {
	signingKey      []byte
	validitySeconds int
	issuer          string
	audience        jwt.ClaimStrings
	leeway          time.Duration
	nowFn           func() time.Time
	logger          Logger
}

// NewTokenService creates a new TokenService instance. validitySeconds is
// the token lifetime; clock skew tolerance defaults to zero and is opted
// into with WithLeeway.
func NewTokenService(signingKey []byte, validitySeconds int, issuer string, audience []string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		validitySeconds: validitySeconds,
		issuer:          issuer,
		audience:        audience,
		nowFn:           time.Now,
		logger:          logger,
	}
}

// WithTimeFunc overrides the clock, enabling deterministic tests
func (ts *TokenServiceImpl) WithTimeFunc(nowFn func() time.Time) *TokenServiceImpl {
	if nowFn != nil {
		ts.nowFn = nowFn
	}
	return ts
}

// WithLeeway configures explicit clock skew tolerance for validation
func (ts *TokenServiceImpl) WithLeeway(leeway time.Duration) *TokenServiceImpl {
	ts.leeway = leeway
	return ts
}

// Sign encodes the claim set plus the validity window into a compact signed
// token. notBefore is now, expires is now plus the configured validity.
func (ts *TokenServiceImpl) Sign(subject string, claims []Claim) (string, error) {
	if len(ts.signingKey) == 0 {
		return "", ErrMissingSigningKey
	}

	now := ts.nowFn()
	payload := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   subject,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.validitySeconds) * time.Second)),
		},
		UID:    subject,
		Claims: claims,
	}

	return ts.SignClaims(payload)
}

// SignClaims signs arbitrary token claims using the configured signing key
func (ts *TokenServiceImpl) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured
// claims. Failures carry one of four reasons: bad signature, expired, not
// yet valid, or malformed.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.nowFn),
		jwt.WithLeeway(ts.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case goerrors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenBadSignature
		case goerrors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case goerrors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}
