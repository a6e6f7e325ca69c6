package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps sessions in process memory. Sessions do not
// survive a restart; it backs SESSION_STORE=memory and the tests.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]*Record
}

func NewMemoryRepository() SessionRepository {
	return &MemoryRepository{records: make(map[string]*Record)}
}

func (r *MemoryRepository) Save(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = rec.clone()
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, rec := range r.records {
		if rec.Expired(now) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) DeleteOtherVersions(ctx context.Context, version int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, rec := range r.records {
		if rec.SchemaVersion != version {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
