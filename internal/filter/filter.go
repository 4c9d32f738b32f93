// Package filter converts between request-list filter path segments such as
// "status/paid,approved/page/2" and a structured State.
//
// The same convention is used for server-rendered pages, XHR reloads and the
// JSON API, so a path built here is always a valid route.
package filter

import (
	"encoding/json"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultPage is the page shown when the path does not name one.
	DefaultPage = 1
	// DefaultSort orders requests newest first.
	DefaultSort = "-submit_timestamp"

	// Details is the free-text attribute. Its values are never comma-split.
	Details = "details"
	// Status is the request status attribute.
	Status = "status"
	// Division filters on division name, or id when numeric.
	Division = "division"

	pageKey = "page"
	sortKey = "sort"
)

// Attributes is the vocabulary of filterable request attributes.
var Attributes = []string{
	"alliance",
	"constellation",
	"corporation",
	Details,
	Division,
	"pilot",
	"region",
	"ship",
	Status,
	"system",
}

// knownNames are the path components that may begin a filter pair.
var knownNames = map[string]bool{
	pageKey: true,
	sortKey: true,
}

func init() {
	for _, a := range Attributes {
		knownNames[a] = true
	}
}

// IsAttribute reports whether name is a filterable attribute.
func IsAttribute(name string) bool {
	return slices.Contains(Attributes, name)
}

// State is what a request list currently shows: attribute filters, page
// and sort order. The zero value is not ready for use; call New or Parse.
type State struct {
	Page int
	Sort string

	// attrs never holds an empty slice; a key without values is deleted.
	attrs map[string][]string
}

// New returns the default State: page 1, newest first, no filters.
func New() *State {
	return &State{
		Page:  DefaultPage,
		Sort:  DefaultSort,
		attrs: make(map[string][]string),
	}
}

// Parse decodes a filter segment. It never fails: an unpaired segment yields
// the default State, a pair with an empty name is skipped and an unparsable
// page number falls back to page 1.
func Parse(segment string) *State {
	s := New()
	segment = strings.Trim(segment, "/")
	if segment == "" {
		return s
	}
	parts := strings.Split(segment, "/")
	if len(parts)%2 != 0 {
		return s
	}
	for i := 0; i < len(parts); i += 2 {
		name := strings.ToLower(parts[i])
		if name == "" {
			continue
		}
		value := unescape(parts[i+1])
		switch name {
		case pageKey:
			s.Page = parsePage(value)
		case sortKey:
			if value != "" {
				s.Sort = value
			}
		case Details:
			s.Add(Details, value)
		default:
			s.Add(name, strings.Split(value, ",")...)
		}
	}
	return s
}

func parsePage(v string) int {
	n, err := strconv.ParseInt(v, 10, 0)
	if err != nil || n < 1 {
		return DefaultPage
	}
	return int(n)
}

func unescape(v string) string {
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// String serializes s into its canonical filter segment. Names are emitted
// in lexicographic order, with the default page and sort omitted.
func (s *State) String() string {
	names := make([]string, 0, len(s.attrs)+2)
	for name := range s.attrs {
		names = append(names, name)
	}
	names = append(names, pageKey, sortKey)
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		switch name {
		case pageKey:
			if s.Page != DefaultPage {
				pairs = append(pairs, pageKey+"/"+strconv.Itoa(s.Page))
			}
		case sortKey:
			if s.Sort != DefaultSort && s.Sort != "" {
				pairs = append(pairs, sortKey+"/"+url.PathEscape(s.Sort))
			}
		case Details:
			for _, v := range s.attrs[Details] {
				pairs = append(pairs, Details+"/"+url.PathEscape(v))
			}
		default:
			values := slices.Clone(s.attrs[name])
			sort.Strings(values)
			for i, v := range values {
				values[i] = url.PathEscape(v)
			}
			pairs = append(pairs, name+"/"+strings.Join(values, ","))
		}
	}
	return strings.Join(pairs, "/")
}

// Add unions values into the attribute's set. Empty values are ignored and
// the attribute name is lower-cased.
func (s *State) Add(attr string, values ...string) {
	attr = strings.ToLower(attr)
	for _, v := range values {
		if v == "" || slices.Contains(s.attrs[attr], v) {
			continue
		}
		s.attrs[attr] = append(s.attrs[attr], v)
	}
}

// Remove drops value from the attribute's set and deletes the attribute once
// it has no values left. It reports whether anything was removed.
func (s *State) Remove(attr, value string) bool {
	attr = strings.ToLower(attr)
	values := s.attrs[attr]
	i := slices.Index(values, value)
	if i < 0 {
		return false
	}
	values = slices.Delete(values, i, i+1)
	if len(values) == 0 {
		delete(s.attrs, attr)
	} else {
		s.attrs[attr] = values
	}
	return true
}

// Clear deletes every value of attr.
func (s *State) Clear(attr string) {
	delete(s.attrs, strings.ToLower(attr))
}

// Values returns a copy of the attribute's values in first-seen order.
func (s *State) Values(attr string) []string {
	return slices.Clone(s.attrs[strings.ToLower(attr)])
}

// Has reports whether attr has at least one value.
func (s *State) Has(attr string) bool {
	_, ok := s.attrs[strings.ToLower(attr)]
	return ok
}

// Names returns the filtered attribute names in sorted order.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.attrs))
	for name := range s.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := &State{Page: s.Page, Sort: s.Sort, attrs: make(map[string][]string, len(s.attrs))}
	for k, v := range s.attrs {
		c.attrs[k] = slices.Clone(v)
	}
	return c
}

// Equal compares page, sort and value sets. Value order is ignored.
func (s *State) Equal(o *State) bool {
	if s.Page != o.Page || s.Sort != o.Sort || len(s.attrs) != len(o.attrs) {
		return false
	}
	for k, v := range s.attrs {
		ov, ok := o.attrs[k]
		if !ok || len(ov) != len(v) {
			return false
		}
		for _, x := range v {
			if !slices.Contains(ov, x) {
				return false
			}
		}
	}
	return true
}

// WithPage returns a copy of s showing page n.
func (s *State) WithPage(n int) *State {
	c := s.Clone()
	if n < 1 {
		n = DefaultPage
	}
	c.Page = n
	return c
}

// SortField splits Sort into the column name and direction.
func (s *State) SortField() (field string, descending bool) {
	if strings.HasPrefix(s.Sort, "-") {
		return s.Sort[1:], true
	}
	return s.Sort, false
}

// ToggleSort sorts by column. Sorting again by the current column flips the
// direction; a different column starts ascending.
func (s *State) ToggleSort(column string) {
	field, descending := s.SortField()
	switch {
	case field != column:
		s.Sort = column
	case descending:
		s.Sort = column
	default:
		s.Sort = "-" + column
	}
}

// MarshalJSON renders the State as a flat object, the shape pushed into
// browser history: {"page": 2, "sort": "-payout", "status": ["paid"]}.
func (s *State) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.attrs)+2)
	for k, v := range s.attrs {
		m[k] = v
	}
	m[pageKey] = s.Page
	m[sortKey] = s.Sort
	return json.Marshal(m)
}

// Split separates a full URL path into its static route and trailing filter
// segment by consuming name/value pairs from the end while the name is a
// filter name. Empty components are dropped.
//
//	Split("/requests/all/status/paid/page/2/") == ("requests/all", "status/paid/page/2")
func Split(path string) (base, segment string) {
	parts := make([]string, 0, strings.Count(path, "/")+1)
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	i := len(parts)
	for i >= 2 && knownNames[strings.ToLower(parts[i-2])] {
		i -= 2
	}
	return strings.Join(parts[:i], "/"), strings.Join(parts[i:], "/")
}

// Join builds a full path from a base route and a State, with a trailing
// slash as used by the list routes.
func Join(base string, s *State) string {
	p := "/" + strings.Trim(base, "/") + "/"
	if seg := s.String(); seg != "" {
		p += seg + "/"
	}
	return p
}
