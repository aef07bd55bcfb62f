package authapi

import goerrors "github.com/goliatone/go-errors"

// Policy is a named authorization rule: a predicate over a claim set.
// Policies never consult live store state, only the claims recovered from a
// presented token.
type Policy func(claims []Claim) bool

// PolicyAdmins is the built-in policy name guarding privileged operations
const PolicyAdmins = "Admins"

// PolicyRegistry maps policy names to predicates. Build it at configuration
// time and treat it as immutable afterwards; Evaluate performs no locking.
type PolicyRegistry struct {
	policies map[string]Policy
	logger   Logger
}

// NewPolicyRegistry returns an empty registry
func NewPolicyRegistry() *PolicyRegistry {
	return &PolicyRegistry{
		policies: map[string]Policy{},
		logger:   defLogger{},
	}
}

// DefaultPolicies returns a registry with the built-in policies. "Admins"
// is satisfied by any claim of type "Admin" regardless of value, including
// "false". Deployments wanting stricter semantics re-register the name with
// RequireClaimValue.
func DefaultPolicies() *PolicyRegistry {
	r := NewPolicyRegistry()
	r.Register(PolicyAdmins, RequireClaimType(ClaimTypeAdmin))
	return r
}

func (r *PolicyRegistry) WithLogger(logger Logger) *PolicyRegistry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Register adds or replaces a named policy. Nil predicates are ignored so a
// half-built configuration cannot register a policy that panics at runtime.
func (r *PolicyRegistry) Register(name string, policy Policy) *PolicyRegistry {
	if policy != nil {
		r.policies[name] = policy
	}
	return r
}

// Registered reports whether a policy name is known
func (r *PolicyRegistry) Registered(name string) bool {
	_, ok := r.policies[name]
	return ok
}

// Evaluate decides whether the claim set satisfies the named policy. An
// unregistered name fails closed with ErrPolicyNotRegistered: that is a
// deployment defect, not a permission issue, and callers must not surface
// it as a plain denial.
func (r *PolicyRegistry) Evaluate(claims []Claim, name string) (bool, error) {
	policy, ok := r.policies[name]
	if !ok {
		r.logger.Error("policy evaluation requested for unregistered policy", "policy", name)
		return false, ErrPolicyNotRegistered.Clone().
			WithMetadata(map[string]any{"policy": name})
	}

	return policy(claims), nil
}

// Authorize is Evaluate with a denial error instead of a boolean, for
// callers that want a single error path.
func (r *PolicyRegistry) Authorize(claims []Claim, name string) error {
	allowed, err := r.Evaluate(claims, name)
	if err != nil {
		return err
	}

	if !allowed {
		return ErrPolicyDenied.Clone().
			WithMetadata(map[string]any{"policy": name})
	}

	return nil
}

// RequireClaimType builds a policy satisfied by any claim of the given type
func RequireClaimType(claimType string) Policy {
	return func(claims []Claim) bool {
		for _, claim := range claims {
			if claim.Type == claimType {
				return true
			}
		}
		return false
	}
}

// RequireClaimValue builds a policy requiring an exact (type, value) pair
func RequireClaimValue(claimType, value string) Policy {
	return func(claims []Claim) bool {
		for _, claim := range claims {
			if claim.Type == claimType && claim.Value == value {
				return true
			}
		}
		return false
	}
}

// RequireRole builds a policy satisfied by membership in the named role
func RequireRole(role string) Policy {
	return RequireClaimValue(ClaimTypeRole, role)
}

// IsPolicyConfigError distinguishes the unregistered-policy signal from a
// normal denial.
func IsPolicyConfigError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodePolicyNotRegistered
	}
	return false
}
