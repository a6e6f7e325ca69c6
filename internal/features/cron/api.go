package cron_feature

import (
	"coin-admin/internal/common/api"
	"coin-admin/internal/features/access"
	"coin-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CronApi struct {
	cronController *CronController
}

func NewCronApi(cronController *CronController) api.Route {
	return &CronApi{
		cronController: cronController,
	}
}

func (h *CronApi) Setup(app *fiber.App) {
	cronJobs := app.Group("/api/cron-jobs", middleware.RequireLogin())

	cronJobs.Get("/", middleware.RequirePermission("settings", access.Settings, access.ReadOnly), h.cronController.ListCronJobs)
	cronJobs.Post("/:name/execute", middleware.RequirePermission("settings", access.Settings, access.ReadAndWrite), h.cronController.ExecuteCronJob)
}
