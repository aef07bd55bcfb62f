package authapi_test

import (
	"testing"
	"time"

	authapi "github.com/goliatone/go-authapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClaims = []authapi.Claim{
	{Type: authapi.ClaimTypeUser, Value: "true"},
	{Type: authapi.ClaimTypeEmail, Value: "a@b.com"},
	{Type: authapi.ClaimTypeRole, Value: "Administrators"},
}

func TestTokenRoundTrip(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	key := []byte("test-signing-key-256-bits-long!!")

	issuer := authapi.NewTokenService(key, 60, "authapi-test", nil, nil).
		WithTimeFunc(fixedClock(t0))

	token, err := issuer.Sign("user-1", testClaims)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate 30s into a 60s window
	validator := authapi.NewTokenService(key, 60, "authapi-test", nil, nil).
		WithTimeFunc(fixedClock(t0.Add(30 * time.Second)))

	claims, err := validator.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject())
	assert.Equal(t, testClaims, claims.ClaimSet())
	assert.Equal(t, t0.Unix(), claims.NotBefore().Unix())
	assert.Equal(t, t0.Add(60*time.Second).Unix(), claims.Expires().Unix())
}

func TestTokenValidationFailures(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	key := []byte("test-signing-key-256-bits-long!!")

	issuer := authapi.NewTokenService(key, 60, "", nil, nil).
		WithTimeFunc(fixedClock(t0))

	token, err := issuer.Sign("user-1", testClaims)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		validator := authapi.NewTokenService(key, 60, "", nil, nil).
			WithTimeFunc(fixedClock(t0.Add(61 * time.Second)))

		_, err := validator.Validate(token)
		assert.ErrorIs(t, err, authapi.ErrTokenExpired)
		assert.True(t, authapi.IsTokenExpiredError(err))
	})

	t.Run("not yet valid", func(t *testing.T) {
		validator := authapi.NewTokenService(key, 60, "", nil, nil).
			WithTimeFunc(fixedClock(t0.Add(-30 * time.Second)))

		_, err := validator.Validate(token)
		assert.ErrorIs(t, err, authapi.ErrTokenNotYetValid)
	})

	t.Run("bad signature", func(t *testing.T) {
		validator := authapi.NewTokenService([]byte("a-different-signing-key-entirely"), 60, "", nil, nil).
			WithTimeFunc(fixedClock(t0.Add(30 * time.Second)))

		_, err := validator.Validate(token)
		assert.ErrorIs(t, err, authapi.ErrTokenBadSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		validator := authapi.NewTokenService(key, 60, "", nil, nil).
			WithTimeFunc(fixedClock(t0))

		for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
			_, err := validator.Validate(raw)
			assert.Error(t, err)
			assert.True(t, authapi.IsMalformedError(err), "input %q", raw)
		}
	})
}

func TestTokenLeeway(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	key := []byte("test-signing-key-256-bits-long!!")

	issuer := authapi.NewTokenService(key, 60, "", nil, nil).
		WithTimeFunc(fixedClock(t0))

	token, err := issuer.Sign("user-1", testClaims)
	require.NoError(t, err)

	// 5s past expiry: rejected at the default zero leeway, accepted with 10s
	strict := authapi.NewTokenService(key, 60, "", nil, nil).
		WithTimeFunc(fixedClock(t0.Add(65 * time.Second)))
	_, err = strict.Validate(token)
	assert.ErrorIs(t, err, authapi.ErrTokenExpired)

	tolerant := authapi.NewTokenService(key, 60, "", nil, nil).
		WithTimeFunc(fixedClock(t0.Add(65 * time.Second))).
		WithLeeway(10 * time.Second)
	_, err = tolerant.Validate(token)
	assert.NoError(t, err)
}

func TestTokenIssuerMismatch(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	key := []byte("test-signing-key-256-bits-long!!")

	issuer := authapi.NewTokenService(key, 60, "issuer-a", nil, nil).
		WithTimeFunc(fixedClock(t0))

	token, err := issuer.Sign("user-1", testClaims)
	require.NoError(t, err)

	validator := authapi.NewTokenService(key, 60, "issuer-b", nil, nil).
		WithTimeFunc(fixedClock(t0.Add(time.Second)))

	_, err = validator.Validate(token)
	assert.Error(t, err)
}

func TestSignWithoutKey(t *testing.T) {
	issuer := authapi.NewTokenService(nil, 60, "", nil, nil)

	_, err := issuer.Sign("user-1", testClaims)
	assert.ErrorIs(t, err, authapi.ErrMissingSigningKey)
}

func TestMultiTokenValidator(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	oldKey := []byte("old-signing-key-rotated-out-0001")
	newKey := []byte("new-signing-key-rotated-in-0002!")

	oldService := authapi.NewTokenService(oldKey, 60, "", nil, nil).
		WithTimeFunc(fixedClock(t0))
	newService := authapi.NewTokenService(newKey, 60, "", nil, nil).
		WithTimeFunc(fixedClock(t0))

	token, err := oldService.Sign("user-1", testClaims)
	require.NoError(t, err)

	multi := authapi.NewMultiTokenValidator(newService, oldService)

	claims, err := multi.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject())

	_, err = multi.Validate("garbage")
	assert.Error(t, err)
}
