package cron_feature

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	Service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{
		Service: service,
	}
}

// ListCronJobs godoc
// @Summary List housekeeping jobs
// @Description List the scheduled housekeeping jobs with their last run
// @Tags cron
// @Produce json
// @Success 200 {array} JobInfo
// @Router /api/cron-jobs [get]
func (c *CronController) ListCronJobs(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.ListJobs())
}

// ExecuteCronJob godoc
// @Summary Execute housekeeping job
// @Description Run a housekeeping job immediately
// @Tags cron
// @Produce json
// @Param name path string true "Job name"
// @Success 200 {object} JobRun
// @Failure 404 {object} map[string]interface{}
// @Router /api/cron-jobs/{name}/execute [post]
func (c *CronController) ExecuteCronJob(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 30*time.Second)
	defer cancel()

	run, err := c.Service.ExecuteJob(ctxt, ctx.Params("name"))
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(run)
}
