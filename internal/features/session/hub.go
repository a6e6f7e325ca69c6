package session

import (
	"sync"
)

// Hub fans session events out to the websocket connections of a session.
type Hub struct {
	mu    sync.RWMutex
	subs  map[string]map[chan Event]struct{}
	owner map[chan Event]string
}

func NewHub() *Hub {
	return &Hub{
		subs:  make(map[string]map[chan Event]struct{}),
		owner: make(map[chan Event]string),
	}
}

// Subscribe registers a listener for sid. The returned func unsubscribes
// and closes the channel, wherever Move has taken it since.
func (h *Hub) Subscribe(sid string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.subs[sid] == nil {
		h.subs[sid] = make(map[chan Event]struct{})
	}
	h.subs[sid][ch] = struct{}{}
	h.owner[ch] = sid
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			current := h.owner[ch]
			delete(h.owner, ch)
			delete(h.subs[current], ch)
			if len(h.subs[current]) == 0 {
				delete(h.subs, current)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Move hands the listeners of from over to to and returns how many moved.
func (h *Hub) Move(from, to string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	moved := h.subs[from]
	if len(moved) == 0 || from == to {
		return 0
	}
	delete(h.subs, from)
	if h.subs[to] == nil {
		h.subs[to] = make(map[chan Event]struct{}, len(moved))
	}
	for ch := range moved {
		h.subs[to][ch] = struct{}{}
		h.owner[ch] = to
	}
	return len(moved)
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
func (h *Hub) Publish(sid string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[sid] {
		select {
		case ch <- ev:
		default:
		}
	}
}
