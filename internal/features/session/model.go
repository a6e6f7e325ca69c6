package session

import (
	"errors"
	"time"

	"coin-admin/internal/common/models"
	"coin-admin/internal/features/access"
)

var ErrNotFound = errors.New("session not found")

// Record is the persisted form of one console session.
type Record struct {
	ID            string         `json:"id" bson:"_id"`
	Session       access.Session `json:"session" bson:"session"`
	BackendToken  string         `json:"backendToken" bson:"backend_token"`
	SchemaVersion int            `json:"schemaVersion" bson:"schema_version"`
	CreatedAt     time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updated_at"`
	ExpiresAt     time.Time      `json:"expiresAt" bson:"expires_at"`
}

func (r *Record) clone() *Record {
	c := *r
	c.Session = *r.Session.Clone()
	return &c
}

// Expired reports whether the record outlived its TTL at now.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// View is the session as the console UI sees it.
type View struct {
	IsLoggedIn     bool                                 `json:"isLoggedIn"`
	Role           *string                              `json:"role"`
	UserID         *string                              `json:"userId"`
	Permissions    map[access.Module]access.Permissions `json:"permissions"`
	BlockedModules map[access.Module]bool               `json:"blockedModules"`
}

func NewView(s *access.Session) *View {
	if s == nil {
		s = access.NewSession()
	}
	c := s.Clone()
	return &View{
		IsLoggedIn:     c.IsLoggedIn,
		Role:           c.Role,
		UserID:         c.UserID,
		Permissions:    c.Permissions,
		BlockedModules: c.BlockedModules,
	}
}

// Event is pushed to the websocket subscribers of a session.
type Event struct {
	Type    string         `json:"type"`
	Session *View          `json:"session,omitempty"`
	Notice  *models.Notice `json:"notice,omitempty"`
}

const (
	EventSession = "session"
	EventNotice  = "notice"
)
