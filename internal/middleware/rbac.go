package middleware

import (
	"coin-admin/internal/common/models"
	"coin-admin/internal/features/access"
	"coin-admin/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// RequireModule replaces the whole screen with the access-denied payload
// when the module is blocked for the session.
func RequireModule(screen string, module access.Module) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c).IsModuleBlocked(module) {
			return denied(c, screen, module)
		}
		return c.Next()
	}
}

// RequirePermission checks a permission level on top of RequireModule.
func RequirePermission(screen string, module access.Module, level access.Level) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := CurrentSession(c)
		if s.IsModuleBlocked(module) || !s.HasPermission(module, level) {
			return denied(c, screen, module)
		}
		return c.Next()
	}
}

func denied(c *fiber.Ctx, screen string, module access.Module) error {
	metrics.AccessDeniedTotal.WithLabelValues(string(module)).Inc()
	return c.Status(fiber.StatusForbidden).JSON(models.AccessDenied{
		Screen:  screen,
		Module:  string(module),
		Blocked: true,
		Message: models.AccessDeniedMessage,
	})
}
