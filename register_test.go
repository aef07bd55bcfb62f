package authapi_test

import (
	"context"
	"testing"
	"time"

	authapi "github.com/goliatone/go-authapi"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistrar(store authapi.IdentityStore, now time.Time) *authapi.Registrar {
	ts := authapi.NewTokenService([]byte(testSigningKey), 60, "", nil, nil).
		WithTimeFunc(fixedClock(now))

	return authapi.NewRegistrar(store, ts)
}

func TestRegister(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	registrar := newTestRegistrar(store, t0)

	result, err := registrar.Register(context.Background(), "A@B.com", "Passw1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "a@b.com", result.User.Username)
	assert.True(t, result.ClaimsAssigned)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.User.PasswordHash)
	assert.NotEqual(t, "Passw1", result.User.PasswordHash)

	// The issued token carries the baseline claims
	validator := authapi.NewTokenService([]byte(testSigningKey), 60, "", nil, nil).
		WithTimeFunc(fixedClock(t0.Add(time.Second)))
	claims, err := validator.Validate(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.HasClaim(authapi.ClaimTypeUser, "true"))
	assert.True(t, claims.HasClaim(authapi.ClaimTypeEmail, "a@b.com"))
	assert.True(t, claims.HasClaim(authapi.ClaimTypeName, "a@b.com"))

	// And the claims were persisted for later logins
	stored, err := store.GetClaims(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestRegisterDuplicateIsCaseInsensitive(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	registrar := newTestRegistrar(store, t0)

	_, err := registrar.Register(context.Background(), "User@x.com", "Passw1")
	require.NoError(t, err)

	_, err = registrar.Register(context.Background(), "user@x.com", "Passw1")
	require.Error(t, err)
	assert.True(t, authapi.IsConflictError(err))

	_, err = registrar.Register(context.Background(), "USER@X.COM", "Passw1")
	require.Error(t, err)
	assert.True(t, authapi.IsConflictError(err))
}

func TestRegisterValidation(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	registrar := newTestRegistrar(store, t0)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "weak password", email: "a@b.com", password: "weak"},
		{name: "no uppercase", email: "a@b.com", password: "passw1"},
		{name: "bad email", email: "not-an-email", password: "Passw1"},
		{name: "empty password", email: "a@b.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registrar.Register(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, authapi.IsValidationError(err))
		})
	}
}

func TestRegisterValidationErrorsListFields(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	registrar := newTestRegistrar(newFakeStore(), t0)

	_, err := registrar.Register(context.Background(), "not-an-email", "weak")
	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Contains(t, rich.Metadata, "email")
	assert.Contains(t, rich.Metadata, "password")
}

func TestRegisterDeterministicIDs(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := newTestRegistrar(newFakeStore(), t0).
		Register(context.Background(), "a@b.com", "Passw1")
	require.NoError(t, err)

	second, err := newTestRegistrar(newFakeStore(), t0).
		Register(context.Background(), "A@B.COM", "Passw1")
	require.NoError(t, err)

	// hashid derives the ID from the normalized email
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestRegisterPartialClaimFailure(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.addClaimErr = goerrors.New("claims table unavailable", goerrors.CategoryInternal)

	registrar := newTestRegistrar(store, t0)

	// The fake store is non-transactional: the user insert sticks, the
	// claim failure is reported separately instead of failing the flow.
	result, err := registrar.Register(context.Background(), "a@b.com", "Passw1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.ClaimsAssigned)
	assert.NotEmpty(t, result.Token)

	_, err = store.FindUserByUsername(context.Background(), "a@b.com")
	assert.NoError(t, err, "user must exist even though claims were not assigned")
}
