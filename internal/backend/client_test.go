package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"coin-admin/internal/config"
	"coin-admin/internal/features/access"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.Config{BackendURL: srv.URL + "/api/", BackendTimeout: 5 * time.Second}, zap.NewNop())
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(Envelope{Status: status, Data: raw})
}

func TestDoDecodesData(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeEnvelope(w, 200, map[string]string{"name": "gold"})
	})

	var out struct {
		Name string `json:"name"`
	}
	err := c.Do(context.Background(), Request{Method: "GET", Path: "/coins/1", Token: "tok"}, &out)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if out.Name != "gold" {
		t.Errorf("name = %q, want gold", out.Name)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotPath != "/api/coins/1" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestDoUnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Envelope{Status: 400, Message: "Amount too large"})
	})

	err := c.Do(context.Background(), Request{Method: "PUT", Path: "/users/1/balance"}, nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.Status != 400 || Message(err) != "Amount too large" {
		t.Errorf("status error = %+v", se)
	}
}

func TestDoExpectCreated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"code":"en"`) {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		writeEnvelope(w, 201, nil)
	})

	err := c.Do(context.Background(), Request{Method: "POST", Path: "/languages", Body: map[string]string{"code": "en"}, Expect: 201}, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestDoUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(Envelope{Status: 401})
	})

	err := c.Do(context.Background(), Request{Method: "GET", Path: "/users"}, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestDoCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Do(ctx, Request{Method: "GET", Path: "/users"}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestListQueryAndShapes(t *testing.T) {
	tests := []struct {
		name      string
		data      any
		wantRows  int
		wantTotal int64
	}{
		{"bare array", []map[string]any{{"_id": "1"}, {"_id": "2"}}, 2, 2},
		{"items and total", map[string]any{"items": []map[string]any{{"_id": "1"}}, "total": 40}, 1, 40},
		{"paginate docs", map[string]any{"docs": []map[string]any{{"_id": "1"}}, "totalDocs": 7}, 1, 7},
		{"null", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery url.Values
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				writeEnvelope(w, 200, tt.data)
			})

			res, err := c.List(context.Background(), "/users", "", url.Values{"page": {"2"}, "limit": {"20"}})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(res.Rows) != tt.wantRows || res.Total != tt.wantTotal {
				t.Errorf("List() = %d rows / %d total, want %d / %d", len(res.Rows), res.Total, tt.wantRows, tt.wantTotal)
			}
			if gotQuery.Get("page") != "2" || gotQuery.Get("limit") != "20" {
				t.Errorf("query = %v", gotQuery)
			}
		})
	}
}

func TestUploadMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("title") != "flag" {
			t.Errorf("title = %q", r.FormValue("title"))
		}
		f, _, err := r.FormFile("icon")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else {
			content, _ := io.ReadAll(f)
			if string(content) != "png-bytes" {
				t.Errorf("file content = %q", content)
			}
		}
		writeEnvelope(w, 200, nil)
	})

	err := c.Do(context.Background(), Request{
		Method: "POST",
		Path:   "/languages",
		Form:   map[string]string{"title": "flag"},
		Files:  []File{{Field: "icon", Name: "flag.png", Content: []byte("png-bytes")}},
	}, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeEnvelope(w, 200, map[string]any{
			"token": "jwt",
			"role": map[string]any{
				"id":   "r1",
				"name": "Support",
				"access": []map[string]any{
					{"module": "Users", "permissions": map[string]bool{"readOnly": true, "readAndWrite": false}},
				},
			},
		})
	})

	res, err := c.Login(context.Background(), "a@b.co", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Token != "jwt" || res.Role.Name != "Support" {
		t.Errorf("Login() = %+v", res)
	}
	if len(res.Role.Access) != 1 || res.Role.Access[0].Module != access.Users || !res.Role.Access[0].Permissions.ReadOnly {
		t.Errorf("access = %+v", res.Role.Access)
	}
}
