package middleware

import (
	"strings"
	"time"

	"coin-admin/internal/features/access"
	"coin-admin/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// SessionLookup resolves a session id to its authorization state.
type SessionLookup interface {
	Lookup(sid string) (*access.Session, bool)
	Ready() bool
}

const SessionTokenHeader = "X-Session-Token"

// Paths that carry no console session.
var sessionlessPrefixes = []string{"/health", "/metrics", "/swagger"}

func sessionless(path string) bool {
	for _, p := range sessionlessPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// LoadingGate answers every request with the loading placeholder until
// persisted sessions have been rehydrated.
func LoadingGate(store SessionLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store.Ready() || sessionless(c.Path()) {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"loading": true,
		})
	}
}

// SessionMiddleware attaches the console session to the request. The sid
// comes from a bearer token or the session cookie; requests without a valid
// one get a fresh sid and an unauthenticated session.
func SessionMiddleware(store SessionLookup, ttl time.Duration, secureCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionless(c.Path()) {
			return c.Next()
		}

		sid := ""
		if claims, err := utils.ValidateSessionToken(sessionToken(c)); err == nil {
			sid = claims.SessionID
		}

		if sid == "" {
			sid = utils.NewSessionID()
			if err := IssueSessionToken(c, sid, ttl, secureCookie); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to start session",
				})
			}
		}

		sess, ok := store.Lookup(sid)
		if !ok {
			sess = access.NewSession()
		}

		c.Locals(utils.SessionIDKey, sid)
		c.Locals(utils.SessionKey, sess)
		return c.Next()
	}
}

// IssueSessionToken binds sid to the client through the session cookie and
// the X-Session-Token header, and attaches it to the current request.
func IssueSessionToken(c *fiber.Ctx, sid string, ttl time.Duration, secureCookie bool) error {
	token, err := utils.GenerateSessionToken(sid, ttl)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Set(SessionTokenHeader, token)
	c.Locals(utils.SessionIDKey, sid)
	return nil
}

func sessionToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return c.Cookies(utils.SessionCookie)
}

// CurrentSession returns the session attached by SessionMiddleware, or an
// unauthenticated one.
func CurrentSession(c *fiber.Ctx) *access.Session {
	if s, ok := c.Locals(utils.SessionKey).(*access.Session); ok && s != nil {
		return s
	}
	return access.NewSession()
}

// CurrentSessionID returns the sid attached by SessionMiddleware.
func CurrentSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(utils.SessionIDKey).(string)
	return sid
}

// RequireLogin rejects API calls from sessions that are not logged in.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentSession(c).IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Login required",
			})
		}
		return c.Next()
	}
}
