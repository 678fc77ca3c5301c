package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/unilib/internal/models"
	"github.com/localnerve/unilib/internal/services"
	"github.com/localnerve/unilib/internal/types"
)

// scopeKey is the Locals key carrying the authenticated tenant scope
const scopeKey = "scope"

// Auth validates the auth_token cookie and stores the caller's tenant Scope
// in the request context. Requests without a valid token get 401.
func Auth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("auth_token")
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Unauthorized",
				Type:    "auth.token",
			}
		}

		scope, err := services.ParseAuthToken(jwtSecret, token)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Unauthorized",
				Type:    "auth.token",
			}
		}

		c.Locals(scopeKey, scope)
		return c.Next()
	}
}

// RequireAdmin gates a route to Admin users; must run after Auth
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := ScopeFrom(c)
		if scope.Role != models.RoleAdmin {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Forbidden",
				Type:    "auth.role",
			}
		}
		return c.Next()
	}
}

// ScopeFrom returns the tenant scope stored by Auth
func ScopeFrom(c *fiber.Ctx) services.Scope {
	if scope, ok := c.Locals(scopeKey).(services.Scope); ok {
		return scope
	}
	return services.Scope{}
}
