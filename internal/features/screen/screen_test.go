package screen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"coin-admin/internal/backend"
	"coin-admin/internal/common/models"
	"coin-admin/internal/features/access"
	"coin-admin/internal/features/listing"
	"coin-admin/internal/features/session"
	"coin-admin/internal/middleware"
	"coin-admin/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type fakeBackend struct {
	mu       sync.Mutex
	rows     []backend.Row
	queries  []url.Values
	requests []backend.Request
	fail     error
}

func (f *fakeBackend) Do(_ context.Context, req backend.Request, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.fail != nil {
		return f.fail
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = json.RawMessage(`{"ok":true}`)
	}
	return nil
}

func (f *fakeBackend) List(_ context.Context, path, token string, query url.Values) (*backend.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	rows := make([]backend.Row, len(f.rows))
	for i, r := range f.rows {
		c := backend.Row{}
		for k, v := range r {
			c[k] = v
		}
		rows[i] = c
	}
	return &backend.ListResult{Rows: rows, Total: int64(len(rows))}, nil
}

func (f *fakeBackend) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeBackend) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeBackend) lastRequest() backend.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*access.Session
	notices  []models.Notice
}

func (f *fakeSessions) Lookup(sid string) (*access.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sid]
	return s.Clone(), ok
}

func (f *fakeSessions) Ready() bool { return true }

func (f *fakeSessions) Current(sid string) *session.View {
	s, _ := f.Lookup(sid)
	return session.NewView(s)
}

func (f *fakeSessions) BackendToken(sid string) string { return "backend-" + sid }

func (f *fakeSessions) Notify(sid string, notice models.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice)
}

func (f *fakeSessions) lastNotice() models.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notices[len(f.notices)-1]
}

type harness struct {
	app      *fiber.App
	backend  *fakeBackend
	sessions *fakeSessions
	token    string
}

func newHarness(t *testing.T, entries ...access.AccessEntry) *harness {
	t.Helper()
	utils.SetSecret("test")

	fb := &fakeBackend{rows: []backend.Row{
		{"_id": "u1", "name": "Asha", "isBlocked": false, "coins": float64(10)},
		{"_id": "u2", "name": "Ravi", "isBlocked": true, "coins": float64(0)},
	}}
	fs := &fakeSessions{sessions: map[string]*access.Session{}}
	if entries != nil {
		fs.sessions["sid1"] = accessSession(entries)
	}

	svc := NewScreenService(fb, fs, listing.NewRegistry(time.Hour), zap.NewNop())
	app := fiber.New()
	app.Use(middleware.LoadingGate(fs))
	app.Use(middleware.SessionMiddleware(fs, time.Hour, false))
	NewScreenApi(NewScreenController(svc, zap.NewNop())).Setup(app)
	app.Use(middleware.NotFound())

	token, err := utils.GenerateSessionToken("sid1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return &harness{app: app, backend: fb, sessions: fs, token: token}
}

func (h *harness) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	resp, err := h.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func accessSession(entries []access.AccessEntry) *access.Session {
	s := access.NewSession()
	s.Login(access.Role{ID: "admin-1", Name: "Ops", Access: entries})
	return s
}

var (
	usersRW   = access.AccessEntry{Module: access.Users, Permissions: access.Permissions{ReadAndWrite: true}}
	usersRO   = access.AccessEntry{Module: access.Users, Permissions: access.Permissions{ReadOnly: true}}
	reportsRW = access.AccessEntry{Module: access.Reports, Permissions: access.Permissions{ReadAndWrite: true}}
)

func decodePage(t *testing.T, data []byte) listing.Page {
	t.Helper()
	var page listing.Page
	if err := json.Unmarshal(data, &page); err != nil {
		t.Fatalf("decode page: %v (%s)", err, data)
	}
	return page
}

func TestListPaginationAndSearch(t *testing.T) {
	h := newHarness(t, usersRW)

	resp, data := h.do(t, "GET", "/users?page=2", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list = %d %s", resp.StatusCode, data)
	}
	if q := h.backend.lastQuery(); q.Get("page") != "2" || q.Get("limit") != "20" || q.Has("search") {
		t.Errorf("paginated query = %v", q)
	}
	if page := decodePage(t, data); len(page.Rows) != 2 || page.Total != 2 {
		t.Errorf("page = %+v", page)
	}

	h.do(t, "PATCH", "/users/search", `{"term":"asha"}`)
	if len(h.backend.queries) != 1 {
		t.Error("editing the search draft fetched")
	}

	h.do(t, "POST", "/users/search", `{"term":"asha"}`)
	if q := h.backend.lastQuery(); q.Get("search") != "asha" || q.Has("page") || q.Has("limit") {
		t.Errorf("search query = %v", q)
	}

	_, data = h.do(t, "GET", "/users?page=5", "")
	if q := h.backend.lastQuery(); q.Has("page") || q.Get("search") != "asha" {
		t.Errorf("paging while searching fetched %v", q)
	}
	if page := decodePage(t, data); !page.State.IsSearching {
		t.Error("search mode lost")
	}

	h.do(t, "DELETE", "/users/search", "")
	if q := h.backend.lastQuery(); q.Get("page") != "1" || q.Has("search") {
		t.Errorf("cleared query = %v", q)
	}
}

func TestBlockedScreenAndDashboard(t *testing.T) {
	h := newHarness(t, usersRO)

	resp, data := h.do(t, "GET", "/coins", "")
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("coins = %d, want 403", resp.StatusCode)
	}
	var denied models.AccessDenied
	_ = json.Unmarshal(data, &denied)
	if !denied.Blocked || denied.Screen != "coins" {
		t.Errorf("denied = %+v", denied)
	}
	if len(h.backend.queries) != 0 {
		t.Error("blocked screen reached the backend")
	}

	resp, data = h.do(t, "GET", "/dashboard", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("dashboard = %d %s", resp.StatusCode, data)
	}
	var dash struct {
		Modules []access.Module `json:"modules"`
	}
	_ = json.Unmarshal(data, &dash)
	if len(dash.Modules) != 1 || dash.Modules[0] != access.Users {
		t.Errorf("dashboard modules = %v", dash.Modules)
	}
}

func TestLoggedOutRedirects(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/", "/users", "/users/add", "/settings", "/profile"} {
		resp, _ := h.do(t, "GET", path, "")
		if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != middleware.LoginPath {
			t.Errorf("GET %s = %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
}

func TestRootRedirectsToDashboard(t *testing.T) {
	h := newHarness(t, usersRO)
	resp, _ := h.do(t, "GET", "/", "")
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != middleware.DashboardPath {
		t.Errorf("root = %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestWritesNeedReadAndWrite(t *testing.T) {
	h := newHarness(t, usersRO)

	resp, _ := h.do(t, "POST", "/users/add", `{"name":"Asha","email":"a@b.co","phone":"+919876543210"}`)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("read-only create = %d, want 403", resp.StatusCode)
	}
	resp, _ = h.do(t, "POST", "/users/u1/block", `{"blocked":true}`)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("read-only block = %d, want 403", resp.StatusCode)
	}
	if h.backend.requestCount() != 0 {
		t.Error("denied write reached the backend")
	}
}

func TestCreateValidatesBeforeSending(t *testing.T) {
	h := newHarness(t, usersRW)

	resp, data := h.do(t, "POST", "/users/add", `{"name":"A","email":"nope","phone":"12"}`)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("invalid create = %d %s", resp.StatusCode, data)
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(data, &body)
	for _, f := range []string{"name", "email", "phone"} {
		if body.Fields[f] == "" {
			t.Errorf("missing field error for %s: %v", f, body.Fields)
		}
	}
	if h.backend.requestCount() != 0 {
		t.Fatal("invalid form reached the backend")
	}

	resp, data = h.do(t, "POST", "/users/add", `{"name":"Asha","email":"a@b.co","phone":"+919876543210"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create = %d %s", resp.StatusCode, data)
	}
	req := h.backend.lastRequest()
	if req.Method != fiber.MethodPost || req.Path != "/admin/users" || req.Expect != fiber.StatusCreated || req.Token != "backend-sid1" {
		t.Errorf("create request = %+v", req)
	}
	if n := h.sessions.lastNotice(); n.Level != models.NoticeSuccess {
		t.Errorf("notice = %+v", n)
	}
}

func TestOptimisticBlockRollsBack(t *testing.T) {
	h := newHarness(t, usersRW)
	h.do(t, "GET", "/users", "")

	h.backend.fail = &backend.StatusError{Status: 500, Message: "Could not update user"}
	resp, data := h.do(t, "POST", "/users/u1/block", `{"blocked":true}`)
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("failed block = %d %s", resp.StatusCode, data)
	}
	var failed struct {
		Error string       `json:"error"`
		Page  listing.Page `json:"page"`
	}
	_ = json.Unmarshal(data, &failed)
	if failed.Error != "Could not update user" || failed.Page.Rows[0]["isBlocked"] != false {
		t.Errorf("rollback body = %+v", failed)
	}
	if n := h.sessions.lastNotice(); n.Level != models.NoticeError || n.Screen != "users" {
		t.Errorf("notice = %+v", n)
	}

	h.backend.fail = nil
	resp, data = h.do(t, "POST", "/users/u1/block", `{"blocked":true}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("block = %d %s", resp.StatusCode, data)
	}
	if page := decodePage(t, data); page.Rows[0]["isBlocked"] != true {
		t.Errorf("optimistic row = %v", page.Rows[0])
	}
	req := h.backend.lastRequest()
	if req.Method != fiber.MethodPut || req.Path != "/admin/users/u1/block" {
		t.Errorf("block request = %+v", req)
	}
}

func TestBalanceMutation(t *testing.T) {
	h := newHarness(t, usersRW)
	h.do(t, "GET", "/users", "")

	resp, data := h.do(t, "POST", "/users/u1/balance", `{"amount":"-5","operation":"credit"}`)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("negative amount = %d, want 422", resp.StatusCode)
	}

	resp, data = h.do(t, "POST", "/users/u1/balance", `{"amount":"2.5","operation":"credit"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("balance = %d %s", resp.StatusCode, data)
	}
	if page := decodePage(t, data); page.Rows[0][BalanceField] != 12.5 {
		t.Errorf("balance = %v", page.Rows[0][BalanceField])
	}
}

func TestMutationUnknownRow(t *testing.T) {
	h := newHarness(t, usersRW)
	h.do(t, "GET", "/users", "")

	resp, _ := h.do(t, "POST", "/users/nobody/block", `{"blocked":true}`)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown row = %d, want 404", resp.StatusCode)
	}
	if h.backend.requestCount() != 0 {
		t.Error("unknown row reached the backend")
	}
}

func TestReportBlockNeedsItsOwnModule(t *testing.T) {
	h := newHarness(t, reportsRW)
	resp, _ := h.do(t, "POST", "/reports/r1/block", `{"blocked":true}`)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("report block without Report/Block = %d, want 403", resp.StatusCode)
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t, usersRO)

	resp, data := h.do(t, "GET", "/users/export", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("export = %d %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %q", ct)
	}
	if len(data) == 0 {
		t.Error("empty workbook")
	}
}

func TestSettingsSingleDocument(t *testing.T) {
	settingsRW := access.AccessEntry{Module: access.Settings, Permissions: access.Permissions{ReadAndWrite: true}}
	h := newHarness(t, settingsRW)

	resp, data := h.do(t, "GET", "/settings", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("settings = %d %s", resp.StatusCode, data)
	}
	resp, _ = h.do(t, "PUT", "/settings", `{"coinRate":"0.5","callRate":"10","minWithdrawal":"100","supportEmail":"help@coin.app"}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("save settings = %d", resp.StatusCode)
	}
	if req := h.backend.lastRequest(); req.Method != fiber.MethodPut || req.Path != "/admin/settings" {
		t.Errorf("settings request = %+v", req)
	}
}
