package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coin-admin/internal/common/models"
	"coin-admin/internal/features/access"
	"coin-admin/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type fakeStore struct {
	ready    bool
	sessions map[string]*access.Session
}

func (f *fakeStore) Lookup(sid string) (*access.Session, bool) {
	s, ok := f.sessions[sid]
	return s, ok
}

func (f *fakeStore) Ready() bool { return f.ready }

func supportSession() *access.Session {
	s := access.NewSession()
	s.Login(access.Role{ID: "r1", Name: "Support", Access: []access.AccessEntry{
		{Module: access.Users, Permissions: access.Permissions{ReadOnly: true}},
	}})
	return s
}

// newApp wires the middleware chain the console uses in front of screens.
func newApp(store *fakeStore) *fiber.App {
	app := fiber.New()
	app.Use(LoadingGate(store))
	app.Use(SessionMiddleware(store, time.Hour, false))

	ok := func(c *fiber.Ctx) error { return c.SendString("screen") }
	app.Get("/", RouteGuard(), ok)
	app.Get(LoginPath, RouteGuard(), ok)
	app.Get(DashboardPath, RouteGuard(), RequireModule("dashboard", access.Dashboard), ok)
	app.Get("/users", RouteGuard(), RequireModule("users", access.Users), ok)
	app.Post("/users/:id/status", RouteGuard(), RequirePermission("users", access.Users, access.ReadAndWrite), ok)
	app.Get("/coins", RouteGuard(), RequireModule("coins", access.Coins), ok)
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("OK") })
	app.Use(NotFound())
	return app
}

func tokenFor(t *testing.T, sid string) string {
	t.Helper()
	token, err := utils.GenerateSessionToken(sid, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func do(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestLoadingGate(t *testing.T) {
	app := newApp(&fakeStore{ready: false})

	resp := do(t, app, "GET", "/users", "")
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if resp := do(t, app, "GET", "/health", ""); resp.StatusCode != fiber.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}
}

func TestGuardLoggedOut(t *testing.T) {
	utils.SetSecret("test")
	app := newApp(&fakeStore{ready: true, sessions: map[string]*access.Session{}})

	for _, path := range []string{"/", "/dashboard", "/users", "/does-not-exist"} {
		resp := do(t, app, "GET", path, "")
		if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != LoginPath {
			t.Errorf("GET %s = %d %q, want redirect to login", path, resp.StatusCode, resp.Header.Get("Location"))
		}
		if resp.Header.Get("X-Session-Token") == "" {
			t.Errorf("GET %s issued no session token", path)
		}
	}

	if resp := do(t, app, "GET", LoginPath, ""); resp.StatusCode != fiber.StatusOK {
		t.Errorf("login screen status = %d", resp.StatusCode)
	}
}

func TestGuardLoggedIn(t *testing.T) {
	utils.SetSecret("test")
	store := &fakeStore{ready: true, sessions: map[string]*access.Session{"sid1": supportSession()}}
	app := newApp(store)
	token := tokenFor(t, "sid1")

	for _, path := range []string{"/", LoginPath} {
		resp := do(t, app, "GET", path, token)
		if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != DashboardPath {
			t.Errorf("GET %s = %d %q, want redirect to dashboard", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
	if resp := do(t, app, "GET", DashboardPath, token); resp.StatusCode != fiber.StatusOK {
		t.Errorf("dashboard status = %d", resp.StatusCode)
	}
	if resp := do(t, app, "GET", "/nowhere", token); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", resp.StatusCode)
	}
}

func TestGuardRevokesOnLogout(t *testing.T) {
	utils.SetSecret("test")
	s := supportSession()
	store := &fakeStore{ready: true, sessions: map[string]*access.Session{"sid1": s}}
	app := newApp(store)
	token := tokenFor(t, "sid1")

	if resp := do(t, app, "GET", "/users", token); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("users before logout = %d", resp.StatusCode)
	}

	loggedOut := s.Clone()
	loggedOut.Logout()
	store.sessions["sid1"] = loggedOut

	resp := do(t, app, "GET", "/users", token)
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != LoginPath {
		t.Errorf("users after logout = %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestRequireModuleAndPermission(t *testing.T) {
	utils.SetSecret("test")
	store := &fakeStore{ready: true, sessions: map[string]*access.Session{"sid1": supportSession()}}
	app := newApp(store)
	token := tokenFor(t, "sid1")

	if resp := do(t, app, "GET", "/users", token); resp.StatusCode != fiber.StatusOK {
		t.Errorf("users = %d, want 200", resp.StatusCode)
	}

	resp := do(t, app, "GET", "/coins", token)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("coins = %d, want 403", resp.StatusCode)
	}
	var body models.AccessDenied
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Blocked || body.Message != models.AccessDeniedMessage || body.Module != "Coins" {
		t.Errorf("denied body = %+v", body)
	}

	if resp := do(t, app, "POST", "/users/1/status", token); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("read-only admin writing users = %d, want 403", resp.StatusCode)
	}
}
