package listing

import (
	"fmt"
	"net/url"
	"strconv"
)

// Query holds the fetch parameters of a list screen. Exactly one of the two
// modes is set: pagination (Page, Limit) or search (Search).
type Query struct {
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Search string `json:"search,omitempty"`
}

// Searching reports whether the query is in search mode.
func (q Query) Searching() bool {
	return q.Page == 0
}

// Key identifies the query for response matching.
func (q Query) Key() string {
	if q.Searching() {
		return "search:" + q.Search
	}
	return fmt.Sprintf("page:%d:%d", q.Page, q.Limit)
}

// Values renders the query string sent to the backend.
func (q Query) Values() url.Values {
	if q.Searching() {
		return url.Values{"search": {q.Search}}
	}
	return url.Values{
		"page":  {strconv.Itoa(q.Page)},
		"limit": {strconv.Itoa(q.Limit)},
	}
}

// State is the list/search/paginate state of one screen.
type State struct {
	Page             int    `json:"page"`
	PageSize         int    `json:"pageSize"`
	SearchTerm       string `json:"searchTerm"`
	ActiveSearchTerm string `json:"activeSearchTerm"`
	IsSearching      bool   `json:"isSearching"`
}

func NewState(pageSize int) State {
	if pageSize < 1 {
		pageSize = 20
	}
	return State{Page: 1, PageSize: pageSize}
}

// Query returns the parameters a fetch issued now would use. A committed
// search drops pagination entirely.
func (s State) Query() Query {
	if s.IsSearching {
		return Query{Search: s.ActiveSearchTerm}
	}
	return Query{Page: s.Page, Limit: s.PageSize}
}

// SetSearchTerm edits the draft term only.
func (s *State) SetSearchTerm(term string) {
	s.SearchTerm = term
}

// CommitSearch makes the draft term active and switches to search mode.
func (s *State) CommitSearch() {
	s.ActiveSearchTerm = s.SearchTerm
	s.IsSearching = true
	s.Page = 1
}

// ClearSearch returns to paginated mode on the first page.
func (s *State) ClearSearch() {
	s.SearchTerm = ""
	s.ActiveSearchTerm = ""
	s.IsSearching = false
	s.Page = 1
}

// SetPage records the page. While searching it has no effect on Query.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}
