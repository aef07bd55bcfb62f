package authapi_test

import (
	"testing"

	authapi "github.com/goliatone/go-authapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminsPolicy(t *testing.T) {
	registry := authapi.DefaultPolicies()

	tests := []struct {
		name    string
		claims  []authapi.Claim
		allowed bool
	}{
		{
			name:    "empty claim set denied",
			claims:  nil,
			allowed: false,
		},
		{
			name: "admin claim satisfies",
			claims: []authapi.Claim{
				{Type: authapi.ClaimTypeAdmin, Value: "true"},
			},
			allowed: true,
		},
		{
			name: "admin claim with value false still satisfies",
			claims: []authapi.Claim{
				{Type: authapi.ClaimTypeAdmin, Value: "false"},
			},
			allowed: true,
		},
		{
			name: "unrelated claims denied",
			claims: []authapi.Claim{
				{Type: authapi.ClaimTypeUser, Value: "true"},
				{Type: authapi.ClaimTypeRole, Value: "Administrators"},
			},
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := registry.Evaluate(tt.claims, authapi.PolicyAdmins)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestUnregisteredPolicyFailsClosed(t *testing.T) {
	registry := authapi.DefaultPolicies()

	allowed, err := registry.Evaluate(nil, "NoSuchPolicy")
	assert.False(t, allowed)
	require.Error(t, err)

	// Configuration defect, not a permission issue
	assert.True(t, authapi.IsPolicyConfigError(err))

	denial := registry.Authorize(nil, authapi.PolicyAdmins)
	require.Error(t, denial)
	assert.False(t, authapi.IsPolicyConfigError(denial))
}

func TestRegisterReplacesPolicy(t *testing.T) {
	registry := authapi.DefaultPolicies().
		Register(authapi.PolicyAdmins, authapi.RequireClaimValue(authapi.ClaimTypeAdmin, "true"))

	allowed, err := registry.Evaluate([]authapi.Claim{
		{Type: authapi.ClaimTypeAdmin, Value: "false"},
	}, authapi.PolicyAdmins)
	require.NoError(t, err)
	assert.False(t, allowed, "strict re-registration should reject Admin=false")
}

func TestRequireRole(t *testing.T) {
	registry := authapi.NewPolicyRegistry().
		Register("Auditors", authapi.RequireRole("Auditors"))

	allowed, err := registry.Evaluate([]authapi.Claim{
		{Type: authapi.ClaimTypeRole, Value: "Auditors"},
	}, "Auditors")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = registry.Evaluate([]authapi.Claim{
		{Type: authapi.ClaimTypeRole, Value: "Administrators"},
	}, "Auditors")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRegisteredIgnoresNilPolicy(t *testing.T) {
	registry := authapi.NewPolicyRegistry().Register("Broken", nil)
	assert.False(t, registry.Registered("Broken"))
}
