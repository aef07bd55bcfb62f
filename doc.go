// Package authapi implements a credential-and-token authentication core:
// bcrypt password verification, claim modeling, HS256 bearer token issuance
// and validation, and policy based authorization decisions.
//
// The package is transport and storage agnostic. Orchestrators (Registrar,
// Auther) talk to persistence through the IdentityStore interface, and the
// bundled Bun/SQLite store is just one implementation of it. Tokens are
// stateless: nothing is retained server side after issuance, so validation
// is a pure computation over the token string and the signing key.
//
// Authorization is expressed as named policies registered at configuration
// time. A policy is a predicate over the claim set recovered from a token;
// evaluating an unregistered policy fails closed with a configuration error
// rather than a normal denial.
package authapi
