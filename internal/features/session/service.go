package session

import (
	"context"

	"coin-admin/internal/backend"
	"coin-admin/internal/common/models"
	"coin-admin/internal/features/access"
	"coin-admin/internal/features/listing"
	"coin-admin/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator exchanges admin credentials for a role payload.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
}

type SessionService interface {
	// Login returns the session under a freshly issued sid; sid is retired.
	Login(ctx context.Context, sid, email, password string) (*View, string, error)
	Logout(ctx context.Context, sid string) (*View, error)
	Current(sid string) *View
	BackendToken(sid string) string
	Notify(sid string, notice models.Notice)
}

type SessionServiceImpl struct {
	store    *Store
	auth     Authenticator
	hub      *Hub
	registry *listing.Registry
	logger   *zap.Logger
}

func NewSessionService(store *Store, auth Authenticator, hub *Hub, registry *listing.Registry, logger *zap.Logger) SessionService {
	return &SessionServiceImpl{
		store:    store,
		auth:     auth,
		hub:      hub,
		registry: registry,
		logger:   logger,
	}
}

func (s *SessionServiceImpl) Login(ctx context.Context, sid, email, password string) (*View, string, error) {
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("Admin login rejected", zap.String("sid", sid), zap.Error(err))
		return nil, "", err
	}

	next := utils.NewSessionID()
	rec, err := s.store.Login(ctx, next, res.Role, res.Token)
	if err != nil {
		return nil, "", err
	}
	if err := s.store.Delete(ctx, sid); err != nil {
		s.logger.Warn("Failed to retire pre-login session", zap.String("sid", sid), zap.Error(err))
	}
	// List controllers fetch with the sid they were created for.
	s.registry.Drop(sid)
	sockets := s.hub.Move(sid, next)

	s.logger.Info("Admin logged in",
		zap.String("sid", next),
		zap.String("adminId", rec.Session.AdminID()),
		zap.String("role", rec.Session.RoleName()),
		zap.Int("sockets", sockets),
	)

	view := NewView(&rec.Session)
	s.hub.Publish(next, Event{Type: EventSession, Session: view})
	return view, next, nil
}

func (s *SessionServiceImpl) Logout(ctx context.Context, sid string) (*View, error) {
	rec, err := s.store.Logout(ctx, sid)
	if err != nil {
		return nil, err
	}
	s.registry.Drop(sid)

	s.logger.Info("Admin logged out", zap.String("sid", sid))

	view := NewView(&rec.Session)
	s.hub.Publish(sid, Event{Type: EventSession, Session: view})
	return view, nil
}

func (s *SessionServiceImpl) Current(sid string) *View {
	sess, ok := s.store.Lookup(sid)
	if !ok {
		return NewView(access.NewSession())
	}
	return NewView(sess)
}

func (s *SessionServiceImpl) BackendToken(sid string) string {
	rec, ok := s.store.Record(sid)
	if !ok {
		return ""
	}
	return rec.BackendToken
}

func (s *SessionServiceImpl) Notify(sid string, notice models.Notice) {
	s.hub.Publish(sid, Event{Type: EventNotice, Notice: &notice})
}
