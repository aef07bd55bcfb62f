//go:build race

package authapi

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost mirrors the production default so configuration code
// compiles identically under race builds.
var DefaultBcryptCost = 14

func passwordHashCost() int {
	// Reduce cost for race-enabled builds so test suites can run with strict timeouts.
	return bcrypt.DefaultCost
}
