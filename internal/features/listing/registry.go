package listing

import (
	"sync"
	"time"
)

type registryEntry struct {
	controller *Controller
	lastUsed   time.Time
}

// Registry keeps one Controller per console session and screen.
type Registry struct {
	mu      sync.Mutex
	idleTTL time.Duration
	entries map[string]map[string]*registryEntry // sid -> screen -> entry
	now     func() time.Time
}

func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		idleTTL: idleTTL,
		entries: make(map[string]map[string]*registryEntry),
		now:     time.Now,
	}
}

// Get returns the controller for (sid, screen), creating it with create on
// first use.
func (r *Registry) Get(sid, screen string, create func() *Controller) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	screens, ok := r.entries[sid]
	if !ok {
		screens = make(map[string]*registryEntry)
		r.entries[sid] = screens
	}
	e, ok := screens[screen]
	if !ok {
		e = &registryEntry{controller: create()}
		screens[screen] = e
	}
	e.lastUsed = r.now()
	return e.controller
}

// Drop forgets every controller of a session.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sid)
}

// Sweep removes controllers idle for longer than the TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	removed := 0
	for sid, screens := range r.entries {
		for name, e := range screens {
			if e.lastUsed.Before(cutoff) {
				delete(screens, name)
				removed++
			}
		}
		if len(screens) == 0 {
			delete(r.entries, sid)
		}
	}
	return removed
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, screens := range r.entries {
		n += len(screens)
	}
	return n
}
