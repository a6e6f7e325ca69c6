package session

import (
	"errors"

	"coin-admin/internal/backend"
	"coin-admin/internal/common/validation"
	"coin-admin/internal/config"
	"coin-admin/internal/middleware"
	"coin-admin/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SessionController struct {
	SessionService SessionService
	Hub            *Hub
	Config         *config.Config
	Logger         *zap.Logger
}

func NewSessionController(sessionService SessionService, hub *Hub, cfg *config.Config, logger *zap.Logger) *SessionController {
	return &SessionController{
		SessionService: sessionService,
		Hub:            hub,
		Config:         cfg,
		Logger:         logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginScreen godoc
// @Summary      Login screen
// @Description  The only screen reachable without a session
// @Tags         session
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /login [get]
func (ctrl *SessionController) LoginScreen(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"screen": "login",
		"fields": []string{"email", "password"},
	})
}

// Login godoc
// @Summary      Login
// @Description  Authenticate against the backend and populate the session
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} View
// @Failure      400  {string} string "Invalid request body"
// @Failure      401  {string} string "Invalid credentials"
// @Failure      422  {object} map[string]interface{}
// @Failure      502  {string} string "Backend unavailable"
// @Router       /api/login [post]
func (ctrl *SessionController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validation.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	view, sid, err := ctrl.SessionService.Login(c.UserContext(), middleware.CurrentSessionID(c), req.Email, req.Password)
	if err != nil {
		return c.Status(loginFailureStatus(err)).JSON(fiber.Map{
			"error": backend.Message(err),
		})
	}

	// The pre-login token is dead from here on.
	if err := middleware.IssueSessionToken(c, sid, ctrl.Config.SessionTTL, ctrl.Config.IsProduction()); err != nil {
		ctrl.Logger.Error("Failed to issue session token", zap.String("sid", sid), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start session",
		})
	}

	return c.JSON(view)
}

// loginFailureStatus answers 401 for credentials the backend refused and
// 502 when the backend itself failed.
func loginFailureStatus(err error) int {
	if errors.Is(err, backend.ErrUnauthorized) {
		return fiber.StatusUnauthorized
	}
	var se *backend.StatusError
	if errors.As(err, &se) {
		switch se.Status {
		case fiber.StatusBadRequest, fiber.StatusUnauthorized, fiber.StatusForbidden:
			return fiber.StatusUnauthorized
		}
	}
	return fiber.StatusBadGateway
}

// Logout godoc
// @Summary      Logout
// @Description  Reset the session; protected screens are revoked on the next request
// @Tags         session
// @Produce      json
// @Success      200  {object} View
// @Router       /api/logout [post]
func (ctrl *SessionController) Logout(c *fiber.Ctx) error {
	view, err := ctrl.SessionService.Logout(c.UserContext(), middleware.CurrentSessionID(c))
	if err != nil {
		ctrl.Logger.Error("Logout failed", zap.String("sid", middleware.CurrentSessionID(c)), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to log out",
		})
	}
	return c.JSON(view)
}

// Current godoc
// @Summary      Current session
// @Description  Login flag, role, user id, permissions and blocked modules
// @Tags         session
// @Produce      json
// @Success      200  {object} View
// @Router       /api/session [get]
func (ctrl *SessionController) Current(c *fiber.Ctx) error {
	return c.JSON(ctrl.SessionService.Current(middleware.CurrentSessionID(c)))
}

// Events streams session and notice events for the connection's session.
func (ctrl *SessionController) Events(conn *websocket.Conn) {
	sid, _ := conn.Locals(utils.SessionIDKey).(string)
	events, unsubscribe := ctrl.Hub.Subscribe(sid)
	defer unsubscribe()

	if err := conn.WriteJSON(Event{Type: EventSession, Session: ctrl.SessionService.Current(sid)}); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				ctrl.Logger.Debug("websocket write failed", zap.String("sid", sid), zap.Error(err))
				return
			}
		}
	}
}

func validationFailed(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verrs,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}
