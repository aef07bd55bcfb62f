package authapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ClaimsContextKey is where Protected stores the validated claims
const ClaimsContextKey = "auth_claims"

// TokenSource extracts a bearer token from a request. The default reads
// the Authorization header with the Bearer scheme.
type TokenSource func(ctx *fiber.Ctx) (string, error)

// BearerTokenSource reads "Authorization: Bearer <token>"
func BearerTokenSource(ctx *fiber.Ctx) (string, error) {
	header := ctx.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrTokenMalformed
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", ErrTokenMalformed
	}

	return strings.TrimSpace(token), nil
}

// Protected guards a route: it validates the presented token, stores the
// recovered claims in the request locals, and when policy is non-empty
// evaluates it against the claim set. Validation failures are 401s; policy
// denials are 403s; an unregistered policy is a 500 with no detail leaked.
func Protected(auther *Auther, policies *PolicyRegistry, policy string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token, err := BearerTokenSource(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed bearer token",
			})
		}

		claims, err := auther.ClaimsFromToken(token)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		ctx.Locals(ClaimsContextKey, claims)

		if policy != "" {
			if err := policies.Authorize(claims.ClaimSet(), policy); err != nil {
				if IsPolicyConfigError(err) {
					return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"error": "internal server error",
					})
				}
				return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "operation not permitted",
				})
			}
		}

		return ctx.Next()
	}
}

// ClaimsFromContext recovers the claims stored by Protected
func ClaimsFromContext(ctx *fiber.Ctx) (AuthClaims, error) {
	claims, ok := ctx.Locals(ClaimsContextKey).(AuthClaims)
	if !ok || claims == nil {
		return nil, goerrors.New("no claims in request context", goerrors.CategoryAuth).
			WithTextCode(TextCodeTokenMalformed)
	}
	return claims, nil
}
