package screen

import (
	"coin-admin/internal/common/api"
	"coin-admin/internal/features/access"
	"coin-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScreenApi struct {
	Controller  *ScreenController
	Definitions []*Definition
}

func NewScreenApi(controller *ScreenController) api.Route {
	return &ScreenApi{
		Controller:  controller,
		Definitions: Definitions(),
	}
}

// Setup registers the screen route table. Every screen sits behind the
// route guard and its module gate; writes also need readAndWrite.
func (h *ScreenApi) Setup(app *fiber.App) {
	guard := middleware.RouteGuard()

	app.Get("/", guard)
	app.Get(middleware.DashboardPath, guard, middleware.RequireModule(dashboardScreen.Name, access.Dashboard), h.Controller.Dashboard)

	profile := app.Group(profileScreen.Path(), guard, middleware.RequireModule(profileScreen.Name, access.Profile))
	profile.Get("/", h.Controller.Profile)
	profile.Put("/password", h.Controller.ChangePassword)

	for _, def := range h.Definitions {
		h.setupScreen(app, guard, def)
	}
}

func (h *ScreenApi) setupScreen(app *fiber.App, guard fiber.Handler, def *Definition) {
	read := middleware.RequireModule(def.Name, def.Module)
	write := middleware.RequirePermission(def.Name, def.Module, access.ReadAndWrite)
	group := app.Group(def.Path(), guard, read)

	if !def.List {
		group.Get("/", h.Controller.Single(def))
		if def.Edit != nil {
			group.Put("/", write, h.Controller.SaveSingle(def))
		}
		return
	}

	group.Get("/", h.Controller.List(def))
	group.Post("/search", h.Controller.Search(def))
	group.Patch("/search", h.Controller.SearchDraft(def))
	group.Delete("/search", h.Controller.ClearSearch(def))
	group.Get("/export", h.Controller.Export(def))

	for _, create := range def.Creates {
		group.Get("/"+create.Segment, write, h.Controller.CreateScreen(def, create))
		group.Post("/"+create.Segment, write, h.Controller.Create(def, create))
	}
	if def.Edit != nil {
		group.Get("/edit/:id", write, h.Controller.Document(def, "edit", ""))
		group.Put("/edit/:id", write, h.Controller.Update(def))
	}
	if def.View {
		group.Get("/view/:id", h.Controller.Document(def, "view", ""))
	}
	if def.KYC {
		group.Get("/kyc/:id", h.Controller.Document(def, "kyc", "/kyc"))
		group.Post("/kyc/:id", write, h.Controller.Decide(def))
	}

	for _, action := range def.Actions {
		module := def.Module
		if action.Module != "" {
			module = action.Module
		}
		group.Post("/:id/"+action.Name, middleware.RequirePermission(def.Name, module, access.ReadAndWrite), h.Controller.Act(def, action))
	}
}
