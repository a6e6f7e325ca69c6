package screen

import (
	"context"
	"encoding/json"
	"net/url"

	"coin-admin/internal/backend"
	"coin-admin/internal/common/models"
	"coin-admin/internal/features/listing"
	"coin-admin/internal/features/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Backend is the part of the REST client the screens use.
type Backend interface {
	Do(ctx context.Context, req backend.Request, out any) error
	List(ctx context.Context, path, token string, query url.Values) (*backend.ListResult, error)
}

// Sessions is the part of the session service the screens use.
type Sessions interface {
	Current(sid string) *session.View
	BackendToken(sid string) string
	Notify(sid string, notice models.Notice)
}

// Upload carries the multipart parts of a form submitted with files.
type Upload struct {
	Fields map[string]string
	Files  []backend.File
}

type ScreenService interface {
	Lists(sid string, def *Definition) *listing.Controller
	Fetch(ctx context.Context, sid, path string) (json.RawMessage, error)
	Send(ctx context.Context, sid, method, path string, form Form, upload *Upload, expect int) (json.RawMessage, error)
	Mutate(ctx context.Context, sid string, def *Definition, action Action, id string, form ActionForm) (*listing.Page, error)
	Notify(sid string, notice models.Notice)
	Session(sid string) *session.View
}

type ScreenServiceImpl struct {
	client   Backend
	sessions Sessions
	registry *listing.Registry
	logger   *zap.Logger
}

func NewScreenService(client Backend, sessions Sessions, registry *listing.Registry, logger *zap.Logger) ScreenService {
	return &ScreenServiceImpl{
		client:   client,
		sessions: sessions,
		registry: registry,
		logger:   logger,
	}
}

// Lists returns the list controller of def for the session, fetching with
// the session's backend token.
func (s *ScreenServiceImpl) Lists(sid string, def *Definition) *listing.Controller {
	return s.registry.Get(sid, def.Name, func() *listing.Controller {
		return listing.NewController(def.Name, def.PageSize, def.IDField, func(ctx context.Context, q listing.Query) (*backend.ListResult, error) {
			return s.client.List(ctx, def.Endpoint, s.sessions.BackendToken(sid), q.Values())
		})
	})
}

func (s *ScreenServiceImpl) Fetch(ctx context.Context, sid, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := s.client.Do(ctx, backend.Request{
		Method: fiber.MethodGet,
		Path:   path,
		Token:  s.sessions.BackendToken(sid),
	}, &raw)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *ScreenServiceImpl) Send(ctx context.Context, sid, method, path string, form Form, upload *Upload, expect int) (json.RawMessage, error) {
	req := backend.Request{
		Method: method,
		Path:   path,
		Token:  s.sessions.BackendToken(sid),
		Expect: expect,
	}
	if upload != nil && len(upload.Files) > 0 {
		req.Form = upload.Fields
		req.Files = upload.Files
	} else if form != nil {
		req.Body = form.Payload()
	}

	var raw json.RawMessage
	if err := s.client.Do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Mutate applies form to the cached row optimistically and sends it as
// PUT <endpoint>/<id>/<action>. A failed send restores the row.
func (s *ScreenServiceImpl) Mutate(ctx context.Context, sid string, def *Definition, action Action, id string, form ActionForm) (*listing.Page, error) {
	path := def.Endpoint + "/" + url.PathEscape(id) + "/" + action.Name
	return s.Lists(sid, def).Mutate(ctx, listing.Mutation{
		RowID: id,
		Apply: form.Apply,
		Send: func(ctx context.Context) error {
			_, err := s.Send(ctx, sid, fiber.MethodPut, path, form, nil, 0)
			return err
		},
		Refetch: action.Refetch,
	})
}

func (s *ScreenServiceImpl) Notify(sid string, notice models.Notice) {
	if notice.Level == models.NoticeError {
		s.logger.Warn("Screen action failed",
			zap.String("sid", sid),
			zap.String("screen", notice.Screen),
			zap.String("message", notice.Message),
		)
	}
	s.sessions.Notify(sid, notice)
}

func (s *ScreenServiceImpl) Session(sid string) *session.View {
	return s.sessions.Current(sid)
}
