package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coin-admin/internal/backend"
	"coin-admin/internal/metrics"
)

var ErrRowNotFound = errors.New("row is not in the current page")

// Fetcher loads one page (or search result) from the backend.
type Fetcher func(ctx context.Context, q Query) (*backend.ListResult, error)

// Page is what a list screen shows for the active query.
type Page struct {
	Query     Query         `json:"query"`
	State     State         `json:"state"`
	Rows      []backend.Row `json:"rows"`
	Total     int64         `json:"total"`
	Loading   bool          `json:"loading,omitempty"`
	FetchedAt time.Time     `json:"fetchedAt,omitempty"`
}

// Mutation is an optimistic change to one row of the current page.
type Mutation struct {
	RowID string
	Apply func(row backend.Row)
	Send  func(ctx context.Context) error
	// Refetch discards the optimistic row after a successful Send and
	// reloads the page from the backend.
	Refetch bool
}

// Controller drives one list screen. Responses are matched to the query
// that is active when they complete; a response for any other query is
// dropped, so a slow old request never overwrites a newer page.
type Controller struct {
	name    string
	idField string
	fetch   Fetcher

	mu    sync.Mutex
	state State
	page  *Page
	seq   uint64
	gen   map[string]uint64 // latest in-flight mutation per row id
}

func NewController(name string, pageSize int, idField string, fetch Fetcher) *Controller {
	if idField == "" {
		idField = "_id"
	}
	return &Controller{
		name:    name,
		idField: idField,
		fetch:   fetch,
		state:   NewState(pageSize),
		gen:     make(map[string]uint64),
	}
}

func (c *Controller) Name() string {
	return c.name
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetSearchTerm(term)
}

func (c *Controller) CommitSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CommitSearch()
}

// Search sets and commits the term in one step.
func (c *Controller) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetSearchTerm(term)
	c.state.CommitSearch()
}

func (c *Controller) ClearSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ClearSearch()
}

func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetPage(page)
}

// Load fetches the active query and returns the page for whatever query is
// active once the fetch completes.
func (c *Controller) Load(ctx context.Context) (*Page, error) {
	c.mu.Lock()
	q := c.state.Query()
	c.mu.Unlock()

	res, err := c.fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Query().Key() == q.Key() {
		c.page = &Page{
			Query:     q,
			Rows:      res.Rows,
			Total:     res.Total,
			FetchedAt: time.Now(),
		}
	}
	return c.currentLocked(), nil
}

// Current returns the cached page for the active query, or a loading
// placeholder when none has arrived yet.
func (c *Controller) Current() *Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Controller) currentLocked() *Page {
	q := c.state.Query()
	if c.page == nil || c.page.Query.Key() != q.Key() {
		return &Page{Query: q, State: c.state, Rows: []backend.Row{}, Loading: true}
	}
	rows := make([]backend.Row, len(c.page.Rows))
	for i, r := range c.page.Rows {
		rows[i] = cloneRow(r)
	}
	return &Page{
		Query:     c.page.Query,
		State:     c.state,
		Rows:      rows,
		Total:     c.page.Total,
		FetchedAt: c.page.FetchedAt,
	}
}

// Invalidate drops the cached page so the next Load refetches.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = nil
}

// Mutate applies m optimistically to the cached row, sends it, and restores
// the row when Send fails. A failed send restores the row only while it
// still holds this mutation's value, then reloads so overlapping mutations
// settle on what the backend holds.
func (c *Controller) Mutate(ctx context.Context, m Mutation) (*Page, error) {
	c.mu.Lock()
	page := c.page
	if page == nil || page.Query.Key() != c.state.Query().Key() {
		c.mu.Unlock()
		return nil, ErrRowNotFound
	}
	idx := c.indexLocked(page, m.RowID)
	if idx < 0 {
		c.mu.Unlock()
		return nil, ErrRowNotFound
	}
	snapshot := cloneRow(page.Rows[idx])
	optimistic := cloneRow(page.Rows[idx])
	if m.Apply != nil {
		m.Apply(optimistic)
	}
	page.Rows[idx] = optimistic
	c.seq++
	gen := c.seq
	c.gen[m.RowID] = gen
	c.mu.Unlock()

	if err := m.Send(ctx); err != nil {
		c.mu.Lock()
		overlapped := c.gen[m.RowID] != gen
		if c.page == page && !overlapped {
			if i := c.indexLocked(page, m.RowID); i >= 0 {
				page.Rows[i] = snapshot
			}
		}
		c.settleLocked(m.RowID, gen)
		c.mu.Unlock()
		metrics.RollbacksTotal.WithLabelValues(c.name).Inc()

		if overlapped {
			c.reload(ctx)
		}
		return nil, err
	}

	c.mu.Lock()
	replaced := c.page != page
	c.settleLocked(m.RowID, gen)
	if m.Refetch && !replaced {
		c.page = nil
	}
	c.mu.Unlock()

	if m.Refetch || replaced {
		return c.Load(ctx)
	}
	return c.Current(), nil
}

// settleLocked forgets the row's generation once its last mutation is done.
func (c *Controller) settleLocked(id string, gen uint64) {
	if c.gen[id] == gen {
		delete(c.gen, id)
	}
}

// reload refetches after a rollback that could not be applied cleanly. If
// the backend is unreachable the cached page is dropped instead.
func (c *Controller) reload(ctx context.Context) {
	if _, err := c.Load(ctx); err != nil {
		c.Invalidate()
	}
}

func (c *Controller) indexLocked(page *Page, id string) int {
	for i, r := range page.Rows {
		if fmt.Sprint(r[c.idField]) == id {
			return i
		}
	}
	return -1
}

func cloneRow(r backend.Row) backend.Row {
	c := make(backend.Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
