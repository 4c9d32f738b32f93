package store

import (
	"strconv"
	"strings"

	"github.com/evesrp/evesrp/internal/filter"
)

// columns maps filter attributes to the columns they match.
var columns = map[string]string{
	"alliance":      "r.alliance",
	"constellation": "r.constellation",
	"corporation":   "r.corporation",
	"details":       "r.details",
	"division":      "d.name",
	"pilot":         "r.pilot",
	"region":        "r.region",
	"ship":          "r.ship_type",
	"status":        "r.status",
	"system":        "r.solar_system",
}

// SortFields maps the sortable field names to ORDER BY expressions.
// Division and pilot names sort without regard to case.
var SortFields = map[string]string{
	"id":               "r.id",
	"division":         "LOWER(d.name)",
	"pilot":            "LOWER(r.pilot)",
	"corporation":      "r.corporation",
	"alliance":         "r.alliance",
	"ship":             "r.ship_type",
	"system":           "r.solar_system",
	"constellation":    "r.constellation",
	"region":           "r.region",
	"kill_timestamp":   "r.kill_timestamp",
	"submit_timestamp": "r.submit_timestamp",
	"payout":           "r.payout",
	"base_payout":      "r.base_payout",
	"status":           "r.status",
}

// where accumulates ANDed conditions with ? placeholders.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func in(col string, n int) string {
	return col + " IN (" + placeholders(n) + ")"
}

func notIn(col string, n int) string {
	return col + " NOT IN (" + placeholders(n) + ")"
}

func anys[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// signGroups buckets an attribute's values by sign.
type signGroups struct {
	equal, exclude, less, greater []string
}

// buildWhere turns the filter and scope into a WHERE clause. Attribute names
// outside the vocabulary are ignored.
func buildWhere(f *filter.State, sc Scope) (*where, error) {
	w := &where{}

	groups := map[string]*signGroups{}
	for _, tok := range f.Tokens() {
		if !filter.IsAttribute(tok.Attribute) {
			continue
		}
		g, ok := groups[tok.Attribute]
		if !ok {
			g = &signGroups{}
			groups[tok.Attribute] = g
		}
		switch tok.Sign {
		case filter.SignExclude:
			g.exclude = append(g.exclude, tok.Value)
		case filter.SignLess:
			g.less = append(g.less, tok.Value)
		case filter.SignGreater:
			g.greater = append(g.greater, tok.Value)
		default:
			g.equal = append(g.equal, tok.Value)
		}
	}

	for _, attr := range f.Names() {
		g, ok := groups[attr]
		if !ok {
			continue
		}
		col := columns[attr]
		switch attr {
		case filter.Status:
			statuses := make([]any, len(g.equal))
			for i, v := range g.equal {
				st, err := ParseStatus(strings.ToLower(v))
				if err != nil {
					return nil, err
				}
				statuses[i] = string(st)
			}
			w.add(in(col, len(statuses)), statuses...)
			continue
		case filter.Details:
			likes := make([]string, len(g.equal))
			args := make([]any, len(g.equal))
			for i, v := range g.equal {
				likes[i] = col + " LIKE ?"
				args[i] = "%" + v + "%"
			}
			w.add("("+strings.Join(likes, " OR ")+")", args...)
			continue
		case filter.Division:
			addDivision(w, g)
		default:
			if len(g.equal) > 0 {
				w.add(in(col, len(g.equal)), anys(g.equal)...)
			}
			if len(g.exclude) > 0 {
				w.add(notIn(col, len(g.exclude)), anys(g.exclude)...)
			}
		}
		for _, v := range g.less {
			w.add(col+" < ?", v)
		}
		for _, v := range g.greater {
			w.add(col+" > ?", v)
		}
	}

	if sc.SubmitterID != "" {
		w.add("r.submitter_id = ?", sc.SubmitterID)
	}
	if sc.RestrictDivisions {
		if len(sc.DivisionIDs) == 0 {
			w.add("1 = 0")
		} else {
			w.add(in("r.division_id", len(sc.DivisionIDs)), anys(sc.DivisionIDs)...)
		}
	}
	if len(sc.Statuses) > 0 {
		statuses := make([]string, len(sc.Statuses))
		for i, st := range sc.Statuses {
			statuses[i] = string(st)
		}
		w.add(in("r.status", len(statuses)), anys(statuses)...)
	}
	return w, nil
}

// addDivision matches division values by name, or by id when numeric.
func addDivision(w *where, g *signGroups) {
	names, ids := splitNumeric(g.equal)
	switch {
	case len(names) > 0 && len(ids) > 0:
		w.add("("+in("d.name", len(names))+" OR "+in("r.division_id", len(ids))+")",
			append(anys(names), anys(ids)...)...)
	case len(names) > 0:
		w.add(in("d.name", len(names)), anys(names)...)
	case len(ids) > 0:
		w.add(in("r.division_id", len(ids)), anys(ids)...)
	}

	names, ids = splitNumeric(g.exclude)
	if len(names) > 0 {
		w.add(notIn("d.name", len(names)), anys(names)...)
	}
	if len(ids) > 0 {
		w.add(notIn("r.division_id", len(ids)), anys(ids)...)
	}
}

func splitNumeric(values []string) (names []string, ids []int64) {
	for _, v := range values {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			ids = append(ids, id)
		} else {
			names = append(names, v)
		}
	}
	return names, ids
}

// orderBy returns the ORDER BY clause for the filter's sort. A field outside
// SortFields falls back to the default sort.
func orderBy(f *filter.State) string {
	field, desc := f.SortField()
	expr, ok := SortFields[field]
	if !ok {
		expr, desc = SortFields["submit_timestamp"], true
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return " ORDER BY " + expr + " " + dir + ", r.id DESC"
}

// ValidSort reports whether the sort string names a sortable field.
func ValidSort(sort string) bool {
	_, ok := SortFields[strings.TrimPrefix(sort, "-")]
	return ok
}
