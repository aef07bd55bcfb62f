package authapi_test

import (
	"context"
	"testing"
	"time"

	authapi "github.com/goliatone/go-authapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the whole credential-and-token path: register, validate the
// issued token, log in, fail a login, grant a role, and authorize against
// the Admins policy.
func TestRegistrationLoginAuthorizationFlow(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeStore()
	ts := authapi.NewTokenService([]byte(testSigningKey), 60, "authapi", nil, nil).
		WithTimeFunc(fixedClock(t0))

	registrar := authapi.NewRegistrar(store, ts)
	auther := authapi.NewAuthenticator(store, testConfig{signingKey: testSigningKey, validity: 60}).
		WithTokenService(ts)
	policies := authapi.DefaultPolicies()

	// Register
	result, err := registrar.Register(ctx, "a@b.com", "Passw1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", result.User.Username)

	claims, err := auther.ClaimsFromToken(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.HasClaim(authapi.ClaimTypeUser, "true"))
	assert.True(t, claims.HasClaim(authapi.ClaimTypeEmail, "a@b.com"))

	// A fresh registration is not an admin
	allowed, err := policies.Evaluate(claims.ClaimSet(), authapi.PolicyAdmins)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Login with correct and wrong credentials
	token, err := auther.Login(ctx, "a@b.com", "Passw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = auther.Login(ctx, "a@b.com", "wrong")
	assert.Equal(t, authapi.ErrInvalidCredentials, err)

	// Grant the Admin claim and a role; the next token carries both
	require.NoError(t, store.AddClaim(ctx, result.User.ID, authapi.Claim{
		Type: authapi.ClaimTypeAdmin, Value: "true",
	}))
	_, err = store.CreateRole(ctx, "Administrators")
	require.NoError(t, err)
	require.NoError(t, store.GrantRole(ctx, result.User.ID, "Administrators"))

	token, err = auther.Login(ctx, "a@b.com", "Passw1")
	require.NoError(t, err)

	claims, err = auther.ClaimsFromToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasClaim(authapi.ClaimTypeRole, "Administrators"))

	allowed, err = policies.Evaluate(claims.ClaimSet(), authapi.PolicyAdmins)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Tokens issued before the grant do not gain the new claims; policy
	// evaluation runs against the token's snapshot, never live store state.
	staleClaims, err := auther.ClaimsFromToken(result.Token)
	require.NoError(t, err)
	assert.False(t, staleClaims.HasClaim(authapi.ClaimTypeRole, "Administrators"))
}
