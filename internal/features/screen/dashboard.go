package screen

import (
	"coin-admin/internal/common/models"
	"coin-admin/internal/features/access"
	"coin-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

var dashboardScreen = &Definition{Name: "dashboard", Title: "Dashboard", Module: access.Dashboard, Endpoint: "/admin/dashboard"}

var profileScreen = &Definition{Name: "profile", Title: "Profile", Module: access.Profile, Endpoint: "/admin/profile"}

// Dashboard godoc
// @Summary      Dashboard
// @Description  Platform aggregates and the modules visible to the admin
// @Tags         screens
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Failure      502  {object} map[string]interface{}
// @Router       /dashboard [get]
func (ctrl *ScreenController) Dashboard(c *fiber.Ctx) error {
	sid := middleware.CurrentSessionID(c)
	stats, err := ctrl.Service.Fetch(c.UserContext(), sid, dashboardScreen.Endpoint)
	if err != nil {
		return ctrl.backendError(c, dashboardScreen, err)
	}

	sess := middleware.CurrentSession(c)
	modules := make([]access.Module, 0, len(access.BlockableModules))
	for _, m := range access.BlockableModules {
		if !sess.IsModuleBlocked(m) {
			modules = append(modules, m)
		}
	}

	return c.JSON(fiber.Map{
		"screen":  dashboardScreen.Name,
		"stats":   stats,
		"modules": modules,
	})
}

// Profile godoc
// @Summary      Profile
// @Description  Identity of the logged-in admin
// @Tags         screens
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /profile [get]
func (ctrl *ScreenController) Profile(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"screen":  profileScreen.Name,
		"session": ctrl.Service.Session(middleware.CurrentSessionID(c)),
	})
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Change the logged-in admin's password
// @Tags         screens
// @Accept       json
// @Produce      json
// @Param        input body PasswordForm true "Passwords"
// @Success      200  {object} map[string]interface{}
// @Failure      422  {object} map[string]interface{}
// @Failure      502  {object} map[string]interface{}
// @Router       /profile/password [put]
func (ctrl *ScreenController) ChangePassword(c *fiber.Ctx) error {
	var form PasswordForm
	if err := parseForm(c, &form); err != nil {
		return formError(c, err)
	}

	sid := middleware.CurrentSessionID(c)
	if _, err := ctrl.Service.Send(c.UserContext(), sid, fiber.MethodPut, profileScreen.Endpoint+"/password", &form, nil, 0); err != nil {
		return ctrl.backendError(c, profileScreen, err)
	}
	ctrl.Service.Notify(sid, models.Notice{Level: models.NoticeSuccess, Screen: profileScreen.Name, Message: "Password changed"})
	return c.JSON(fiber.Map{"message": "Password changed"})
}
