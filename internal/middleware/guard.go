package middleware

import (
	"coin-admin/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// RouteGuard decides which part of the screen route table a session sees.
// Logged out, only the login screen exists and everything else redirects to
// it. Logged in, the root and the login screen redirect to the dashboard.
func RouteGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !CurrentSession(c).IsLoggedIn {
			if path == LoginPath {
				return c.Next()
			}
			metrics.GuardRedirectsTotal.WithLabelValues(LoginPath).Inc()
			return c.Redirect(LoginPath, fiber.StatusFound)
		}

		if path == "/" || path == LoginPath {
			metrics.GuardRedirectsTotal.WithLabelValues(DashboardPath).Inc()
			return c.Redirect(DashboardPath, fiber.StatusFound)
		}
		return c.Next()
	}
}

// NotFound ends the route table: unknown paths send logged-out sessions to
// the login screen and answer 404 otherwise.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentSession(c).IsLoggedIn && !sessionless(c.Path()) {
			metrics.GuardRedirectsTotal.WithLabelValues(LoginPath).Inc()
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	}
}
