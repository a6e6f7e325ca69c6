package session

import (
	"coin-admin/internal/common/api"
	"coin-admin/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type SessionApi struct {
	Controller *SessionController
}

func NewSessionApi(controller *SessionController) api.Route {
	return &SessionApi{
		Controller: controller,
	}
}

func (h *SessionApi) Setup(app *fiber.App) {
	app.Get(middleware.LoginPath, middleware.RouteGuard(), h.Controller.LoginScreen)

	group := app.Group("/api")
	group.Post("/login", h.Controller.Login)
	group.Post("/logout", middleware.RequireLogin(), h.Controller.Logout)
	group.Get("/session", h.Controller.Current)

	group.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, websocket.New(h.Controller.Events))
}
