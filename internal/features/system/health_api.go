package system

import (
	"coin-admin/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Readiness reports whether persisted sessions are loaded.
type Readiness interface {
	Ready() bool
}

type HealthApi struct {
	sessions Readiness
}

func NewHealthApi(sessions Readiness) api.Route {
	return &HealthApi{sessions: sessions}
}

// Setup registers health and metrics routes
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Get("/health/ready", h.ReadyCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check if the server is up
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Router       /health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// ReadyCheck godoc
// @Summary      Readiness Check
// @Description  503 until persisted sessions have been rehydrated
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health/ready [get]
func (h *HealthApi) ReadyCheck(c *fiber.Ctx) error {
	if !h.sessions.Ready() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ready": false})
	}
	return c.JSON(fiber.Map{"ready": true})
}
