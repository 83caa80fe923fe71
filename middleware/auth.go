package middleware

import (
	"strings"

	"civiceye/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserContextMiddleware extracts the user identity and roles set by the
// gateway. Routes under /s/ must carry X-User-ID.
func UserContextMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		rolesStr := c.Get("X-User-Roles")

		path := c.Path()
		if strings.HasPrefix(path, "/s/") && userID == "" {
			log.Warn("user_context_missing", zap.String("path", path))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID, request must come through gateway with auth context",
			})
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)

		log.Debug("user_context",
			zap.String("user_id", userID),
			zap.Strings("roles", roles),
			zap.String("path", path),
		)
		return c.Next()
	}
}

// RequireAdmin lets the request through when the caller is a stored admin
// user or the gateway gave them the admin role.
func RequireAdmin(users repository.UserRepository, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == "admin" {
				c.Locals("is_admin", true)
				return c.Next()
			}
		}
		if userID != "" {
			if u, err := users.Get(c.Context(), userID); err == nil && u.IsAdmin {
				c.Locals("is_admin", true)
				return c.Next()
			}
		}
		log.Warn("admin_required", zap.String("user_id", userID), zap.String("path", c.Path()))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin privileges required",
		})
	}
}
