package middleware

import (
	"strings"

	"go-inventory-api/internal/authz"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// RequireAuth validates the bearer access token and stores the live user in
// the request context. Anonymous requests are rejected with 401.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication credentials were not provided."})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		user, err := auth.Authenticate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequirePermission lets the request through only if the authenticated user's role holds perm
func RequirePermission(perm authz.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		var principal *authz.Principal
		if user != nil {
			principal = &authz.Principal{User: user}
		}

		switch err := authz.Check(principal, perm); err {
		case nil:
			return c.Next()
		case authz.ErrUnauthenticated:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication credentials were not provided."})
		default:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have permission to perform this action."})
		}
	}
}

// CurrentUser returns the user set by RequireAuth, or nil
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(userKey).(*model.User)
	return user
}
