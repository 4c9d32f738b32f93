package store

import (
	"context"
	"fmt"

	"github.com/evesrp/evesrp/internal/filter"
)

// Choices returns the known values of a filter attribute for suggestions:
// the fixed status list, division names, or the distinct values recorded on
// requests. Details has no choices.
func (s *RequestStore) Choices(ctx context.Context, attribute string) ([]string, error) {
	switch attribute {
	case filter.Status:
		out := make([]string, len(Statuses))
		for i, st := range Statuses {
			out[i] = string(st)
		}
		return out, nil
	case filter.Details:
		return []string{}, nil
	case filter.Division:
		out := []string{}
		err := s.db.SelectContext(ctx, &out, `SELECT name FROM divisions ORDER BY name ASC`)
		return out, err
	}

	col, ok := columns[attribute]
	if !ok {
		return nil, fmt.Errorf("%w: unknown attribute %q", ErrInvalidFilter, attribute)
	}
	out := []string{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT DISTINCT `+col+` FROM requests r WHERE `+col+` <> '' ORDER BY `+col+` ASC`)
	if err != nil {
		return nil, fmt.Errorf("choices for %s: %w", attribute, err)
	}
	return out, nil
}
