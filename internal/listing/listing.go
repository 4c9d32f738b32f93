// Package listing loads one page of a request list from its URL path. It is
// shared by the HTML pages, their XHR reloads and the JSON API, so the
// filter path means the same thing everywhere.
package listing

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/filter"
	"github.com/evesrp/evesrp/internal/metrics"
	"github.com/evesrp/evesrp/internal/pager"
	"github.com/evesrp/evesrp/internal/store"
)

const (
	// HTMLPerPage is the page size of the browser views.
	HTMLPerPage = 15
	// APIPerPage is the page size of the JSON API.
	APIPerPage = 200
)

// RedirectError asks the caller to send the client to Location instead of
// rendering. Status is 301 for a non-canonical spelling of the filter and
// 302 for a page past the end of the list.
type RedirectError struct {
	Location string
	Status   int
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect %d to %s", e.Status, e.Location)
}

// RequestLister is the part of the request store a listing reads.
type RequestLister interface {
	List(ctx context.Context, q store.Query) (*store.ListResult, error)
}

// DivisionResolver finds the divisions a user may see.
type DivisionResolver interface {
	DivisionIDsWith(ctx context.Context, u *store.User, perms ...store.Permission) ([]int64, error)
}

// Column is a sortable list heading.
type Column struct {
	Field      string
	Label      string
	URL        string
	Active     bool
	Descending bool
}

// ActiveFilter is a filter term currently applied, with the URL that
// removes it.
type ActiveFilter struct {
	filter.Token
	Text      string
	RemoveURL string
}

// Page is one rendered page of a request list.
type Page struct {
	Scope       Scope
	Base        string
	Path        string
	Filter      *filter.State
	Requests    []*store.Request
	Count       int
	TotalPayout int64
	Pager       pager.View
	Columns     []Column
	Filters     []ActiveFilter
}

// columns are the sortable headings in display order.
var columns = []struct{ field, label string }{
	{"id", "Request ID"},
	{"pilot", "Pilot"},
	{"ship", "Ship"},
	{"division", "Division"},
	{"status", "Status"},
	{"payout", "Payout"},
	{"submit_timestamp", "Submitted"},
}

type Service struct {
	requests  RequestLister
	divisions DivisionResolver
	log       logrus.FieldLogger
}

func NewService(requests RequestLister, divisions DivisionResolver, log logrus.FieldLogger) *Service {
	return &Service{requests: requests, divisions: divisions, log: log}
}

// Load resolves escapedPath (the request's URL.EscapedPath) for user. The
// last static component of the path must be scopeName. A path that is not
// the canonical spelling of its filter, or that asks for a page past the
// end, yields a *RedirectError. An unknown scope yields store.ErrNotFound.
func (s *Service) Load(ctx context.Context, user *store.User, scopeName, escapedPath string, perPage int) (*Page, error) {
	start := time.Now()
	p, err := s.load(ctx, user, scopeName, escapedPath, perPage)
	outcome := "ok"
	switch err.(type) {
	case nil:
		metrics.ListDuration.WithLabelValues(scopeName).Observe(time.Since(start).Seconds())
	case *RedirectError:
		outcome = "redirect"
	default:
		outcome = "error"
	}
	if _, known := LookupScope(scopeName); known {
		metrics.ListRequestsTotal.WithLabelValues(scopeName, outcome).Inc()
	}
	return p, err
}

func (s *Service) load(ctx context.Context, user *store.User, scopeName, escapedPath string, perPage int) (*Page, error) {
	scope, ok := LookupScope(scopeName)
	if !ok {
		return nil, fmt.Errorf("scope %q: %w", scopeName, store.ErrNotFound)
	}
	base, segment := filter.Split(escapedPath)
	if path.Base(base) != scope.Name {
		return nil, fmt.Errorf("path %q: %w", escapedPath, store.ErrNotFound)
	}

	state := filter.Parse(segment)
	canonical := filter.Join(base, state)
	if canonical != escapedPath {
		metrics.CanonicalRedirectsTotal.Inc()
		return nil, &RedirectError{Location: canonical, Status: http.StatusMovedPermanently}
	}
	for _, name := range state.Names() {
		if !filter.IsAttribute(name) {
			s.log.WithField("attribute", name).Debug("ignoring unknown filter attribute")
		}
	}
	if !store.ValidSort(state.Sort) {
		s.log.WithField("sort", state.Sort).Debug("unknown sort field, using default order")
	}

	sc := store.Scope{Statuses: scope.Statuses}
	if scope.Personal {
		sc.SubmitterID = user.ID
	} else {
		ids, err := s.divisions.DivisionIDsWith(ctx, user, scope.Perms...)
		if err != nil {
			return nil, fmt.Errorf("resolve divisions: %w", err)
		}
		sc.RestrictDivisions = true
		sc.DivisionIDs = ids
	}

	res, err := s.requests.List(ctx, store.Query{Filter: state, Scope: sc, PerPage: perPage})
	if err != nil {
		return nil, err
	}

	if numPages := pager.NumPages(res.Count, perPage); state.Page > 1 && state.Page > numPages {
		return nil, &RedirectError{
			Location: filter.Join(base, state.WithPage(max(numPages, 1))),
			Status:   http.StatusFound,
		}
	}

	page := &Page{
		Scope:       scope,
		Base:        base,
		Path:        canonical,
		Filter:      state,
		Requests:    res.Requests,
		Count:       res.Count,
		TotalPayout: res.TotalPayout,
		Pager: pager.New(res.Count, perPage, state.Page, func(n int) string {
			return filter.Join(base, state.WithPage(n))
		}),
	}

	field, desc := state.SortField()
	for _, c := range columns {
		next := state.Clone()
		next.ToggleSort(c.field)
		page.Columns = append(page.Columns, Column{
			Field:      c.field,
			Label:      c.label,
			URL:        filter.Join(base, next),
			Active:     field == c.field,
			Descending: field == c.field && desc,
		})
	}

	for _, tok := range state.Tokens() {
		next := state.WithPage(filter.DefaultPage)
		next.Unapply(tok)
		page.Filters = append(page.Filters, ActiveFilter{
			Token:     tok,
			Text:      tok.String(),
			RemoveURL: filter.Join(base, next),
		})
	}
	return page, nil
}

// AddFilter returns the canonical path of the list at escapedPath with tok
// applied, back on the first page.
func AddFilter(escapedPath string, tok filter.Token) string {
	base, segment := filter.Split(escapedPath)
	state := filter.Parse(segment).WithPage(filter.DefaultPage)
	state.Apply(tok)
	return filter.Join(base, state)
}

// RemoveFilter returns the canonical path of the list at escapedPath with
// tok removed, back on the first page.
func RemoveFilter(escapedPath string, tok filter.Token) string {
	base, segment := filter.Split(escapedPath)
	state := filter.Parse(segment).WithPage(filter.DefaultPage)
	state.Unapply(tok)
	return filter.Join(base, state)
}
