package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"coin-admin/internal/config"
	"coin-admin/internal/features/access"
	"coin-admin/internal/metrics"

	"go.uber.org/zap"
)

// Store is the console's source of authorization truth. Records are
// replaced whole on login and logout, never edited in place, so readers
// always see a consistent session.
type Store struct {
	repo    SessionRepository
	ttl     time.Duration
	version int
	logger  *zap.Logger
	now     func() time.Time

	// writeMu serializes writers from read through persist to swap; mu
	// guards the map for readers.
	writeMu sync.Mutex
	mu      sync.RWMutex
	records map[string]*Record
	ready   atomic.Bool
}

func NewStore(repo SessionRepository, cfg *config.Config, logger *zap.Logger) *Store {
	return &Store{
		repo:    repo,
		ttl:     cfg.SessionTTL,
		version: cfg.SessionSchemaVersion,
		logger:  logger,
		now:     time.Now,
		records: make(map[string]*Record),
	}
}

// Ready reports whether rehydration has finished.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// Rehydrate loads persisted sessions of the current schema version. Records
// written by another version are discarded rather than migrated.
func (s *Store) Rehydrate(ctx context.Context) error {
	defer s.ready.Store(true)

	if err := s.repo.EnsureIndexes(ctx); err != nil {
		s.logger.Warn("Failed to ensure session indexes", zap.Error(err))
	}

	dropped, err := s.repo.DeleteOtherVersions(ctx, s.version)
	if err != nil {
		return fmt.Errorf("rehydrate sessions: %w", err)
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate sessions: %w", err)
	}

	now := s.now()
	loaded := make(map[string]*Record, len(records))
	for i := range records {
		rec := records[i]
		if rec.Expired(now) {
			continue
		}
		if rec.Session.Permissions == nil {
			rec.Session.Permissions = map[access.Module]access.Permissions{}
		}
		loaded[rec.ID] = &rec
	}

	s.mu.Lock()
	s.records = loaded
	s.mu.Unlock()
	s.updateGauge()

	s.logger.Info("Sessions rehydrated",
		zap.Int("loaded", len(loaded)),
		zap.Int64("dropped_versions", dropped),
	)
	return nil
}

// Lookup returns a copy of the session for sid.
func (s *Store) Lookup(sid string) (*access.Session, bool) {
	rec, ok := s.Record(sid)
	if !ok {
		return nil, false
	}
	return &rec.Session, true
}

// Record returns a copy of the live record for sid.
func (s *Store) Record(sid string) (*Record, bool) {
	s.mu.RLock()
	rec, ok := s.records[sid]
	s.mu.RUnlock()
	if !ok || rec.Expired(s.now()) {
		return nil, false
	}
	return rec.clone(), true
}

// Login folds role into the session for sid and persists it.
func (s *Store) Login(ctx context.Context, sid string, role access.Role, backendToken string) (*Record, error) {
	return s.replace(ctx, sid, func(rec *Record) {
		rec.Session.Login(role)
		rec.BackendToken = backendToken
	})
}

// Logout resets the session for sid. The record is kept so the blocked
// module snapshot survives.
func (s *Store) Logout(ctx context.Context, sid string) (*Record, error) {
	return s.replace(ctx, sid, func(rec *Record) {
		rec.Session.Logout()
		rec.BackendToken = ""
	})
}

func (s *Store) replace(ctx context.Context, sid string, mutate func(*Record)) (*Record, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()
	current, err := s.current(ctx, sid, now)
	if err != nil {
		return nil, err
	}

	var next *Record
	if current != nil {
		next = current.clone()
	} else {
		next = &Record{
			ID:        sid,
			Session:   *access.NewSession(),
			CreatedAt: now,
		}
	}
	mutate(next)
	next.SchemaVersion = s.version
	next.UpdatedAt = now
	next.ExpiresAt = now.Add(s.ttl)

	if err := s.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.records[sid] = next
	s.mu.Unlock()
	s.updateGauge()

	return next.clone(), nil
}

// current returns the live record for sid. A sid unknown in memory is
// looked up in the repository, where another console instance may have
// written it.
func (s *Store) current(ctx context.Context, sid string, now time.Time) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.records[sid]
	s.mu.RUnlock()
	if ok {
		if rec.Expired(now) {
			return nil, nil
		}
		return rec, nil
	}

	rec, err := s.repo.FindByID(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if rec.Expired(now) || rec.SchemaVersion != s.version {
		return nil, nil
	}
	if rec.Session.Permissions == nil {
		rec.Session.Permissions = map[access.Module]access.Permissions{}
	}
	return rec, nil
}

// Delete forgets sid in memory and storage.
func (s *Store) Delete(ctx context.Context, sid string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.mu.Lock()
	delete(s.records, sid)
	s.mu.Unlock()
	s.updateGauge()
	return nil
}

// Sweep drops expired sessions from memory and storage.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()

	s.mu.Lock()
	removed := 0
	for sid, rec := range s.records {
		if rec.Expired(now) {
			delete(s.records, sid)
			removed++
		}
	}
	s.mu.Unlock()
	s.updateGauge()

	if _, err := s.repo.DeleteExpired(ctx, now); err != nil {
		return removed, err
	}
	return removed, nil
}

func (s *Store) updateGauge() {
	s.mu.RLock()
	n := 0
	for _, rec := range s.records {
		if rec.Session.IsLoggedIn {
			n++
		}
	}
	s.mu.RUnlock()
	metrics.ActiveSessions.Set(float64(n))
}
