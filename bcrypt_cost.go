//go:build !race

package authapi

// DefaultBcryptCost is the work factor used by HashPassword. Deployments
// override it through Config before building the registrar.
var DefaultBcryptCost = 14

func passwordHashCost() int {
	return DefaultBcryptCost
}
