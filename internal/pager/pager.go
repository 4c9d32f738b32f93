// Package pager computes which page links a request list shows.
package pager

import "encoding/json"

// Window configures how many pages are listed at each edge and around the
// current page.
type Window struct {
	LeftEdge     int
	LeftCurrent  int
	RightCurrent int
	RightEdge    int
}

// DefaultWindow lists two pages at each edge, two before the current page
// and four after it.
var DefaultWindow = Window{LeftEdge: 2, LeftCurrent: 2, RightCurrent: 5, RightEdge: 2}

// Slot is a zero-indexed page number, or Gap for a run of omitted pages.
type Slot int

// Gap marks elided pages, rendered as an ellipsis.
const Gap Slot = -1

// IsGap reports whether the slot is an elision marker.
func (s Slot) IsGap() bool { return s == Gap }

// MarshalJSON encodes a gap as null and a page as its number.
func (s Slot) MarshalJSON() ([]byte, error) {
	if s.IsGap() {
		return []byte("null"), nil
	}
	return json.Marshal(int(s))
}

// Numbers returns the page slots for a list of numPages pages with current
// (zero-indexed) selected. A page is listed when it is within the edges or
// inside the window around current; every other run collapses to one Gap.
//
// With the default window, Numbers(20, 9, DefaultWindow) lists
// 0 1 … 7 8 9 10 11 12 13 … 18 19.
func Numbers(numPages, current int, w Window) []Slot {
	var slots []Slot
	for i := 0; i < numPages; i++ {
		switch {
		case i < w.LeftEdge,
			current-w.LeftCurrent-1 < i && i < current+w.RightCurrent,
			i > numPages-w.RightEdge-1:
			slots = append(slots, Slot(i))
		case len(slots) == 0 || !slots[len(slots)-1].IsGap():
			slots = append(slots, Gap)
		}
	}
	return slots
}

// NumPages is the number of pages needed to show total items perPage at a
// time.
func NumPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
