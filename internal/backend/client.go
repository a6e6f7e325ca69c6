package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coin-admin/internal/config"
	"coin-admin/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// File is one part of a multipart upload.
type File struct {
	Field   string
	Name    string
	Content []byte
}

// Request describes one call to the REST backend.
type Request struct {
	Method string
	Path   string
	Token  string
	Query  url.Values
	Body   any

	// Form and Files switch the body to multipart/form-data.
	Form  map[string]string
	Files []File

	// Expect is the envelope status treated as success. Zero means 200.
	Expect int
}

// Client talks to the REST backend. Every response is an Envelope.
type Client struct {
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		timeout: cfg.BackendTimeout,
		logger:  logger,
	}
}

// Do sends the request and decodes the envelope's data into out (which may
// be nil). A status other than the expected one yields a *StatusError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a := fiber.AcquireAgent()
	r := a.Request()
	r.Header.SetMethod(req.Method)
	r.SetRequestURI(c.url(req.Path, req.Query))
	a.Timeout(c.timeoutFor(ctx))
	if req.Token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+req.Token)
	}

	switch {
	case req.Form != nil || len(req.Files) > 0:
		args := fiber.AcquireArgs()
		defer fiber.ReleaseArgs(args)
		for k, v := range req.Form {
			args.Set(k, v)
		}
		for _, f := range req.Files {
			a.FileData(&fiber.FormFile{Fieldname: f.Field, Name: f.Name, Content: f.Content})
		}
		a.MultipartForm(args)
	case req.Body != nil:
		a.JSON(req.Body)
	}

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("backend %s %s: %w", req.Method, req.Path, err)
	}

	start := time.Now()
	code, body, errs := a.Bytes()
	metrics.BackendRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	if len(errs) > 0 {
		metrics.BackendRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		c.logger.Warn("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Errors("errors", errs),
		)
		return fmt.Errorf("backend %s %s: %w", req.Method, req.Path, errors.Join(errs...))
	}
	metrics.BackendRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(code)).Inc()

	return decode(req, code, body, out)
}

func decode(req Request, code int, body []byte, out any) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &StatusError{Method: req.Method, Path: req.Path, Status: code, Message: "malformed response"}
	}

	if code == fiber.StatusUnauthorized || env.Status == fiber.StatusUnauthorized {
		return fmt.Errorf("backend %s %s: %w", req.Method, req.Path, ErrUnauthorized)
	}

	expect := req.Expect
	if expect == 0 {
		expect = fiber.StatusOK
	}
	if code < 200 || code > 299 || env.Status != expect {
		status := env.Status
		if status == 0 {
			status = code
		}
		return &StatusError{Method: req.Method, Path: req.Path, Status: status, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("backend %s %s: decode data: %w", req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// timeoutFor caps the transport timeout by the context deadline.
func (c *Client) timeoutFor(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left > 0 && (timeout <= 0 || left < timeout) {
			timeout = left
		}
	}
	return timeout
}
