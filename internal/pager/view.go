package pager

// Link is one entry of a rendered pager. Number is 1-indexed; gaps have no
// number and no URL.
type Link struct {
	Number int    `json:"number,omitempty"`
	URL    string `json:"url,omitempty"`
	Active bool   `json:"active,omitempty"`
	Gap    bool   `json:"gap,omitempty"`
}

// View is the data a template or JSON client needs to draw a pager.
type View struct {
	Current int    `json:"current"`
	Pages   int    `json:"pages"`
	Count   int    `json:"count"`
	PerPage int    `json:"per_page"`
	PrevURL string `json:"prev_url,omitempty"`
	NextURL string `json:"next_url,omitempty"`
	Links   []Link `json:"links"`
}

// Hidden reports whether there is at most one page, in which case no pager
// is drawn.
func (v View) Hidden() bool { return v.Pages <= 1 }

// HasPrev reports whether a previous page exists.
func (v View) HasPrev() bool { return v.Current > 1 }

// HasNext reports whether a following page exists.
func (v View) HasNext() bool { return v.Current < v.Pages }

// New builds the pager for count items shown perPage at a time with page
// (1-indexed) selected. href returns the URL of a 1-indexed page.
func New(count, perPage, page int, href func(page int) string) View {
	v := View{
		Current: page,
		Pages:   NumPages(count, perPage),
		Count:   count,
		PerPage: perPage,
	}
	if v.HasPrev() {
		v.PrevURL = href(page - 1)
	}
	if v.HasNext() {
		v.NextURL = href(page + 1)
	}
	slots := Numbers(v.Pages, page-1, DefaultWindow)
	v.Links = make([]Link, 0, len(slots))
	for _, s := range slots {
		if s.IsGap() {
			v.Links = append(v.Links, Link{Gap: true})
			continue
		}
		n := int(s) + 1
		v.Links = append(v.Links, Link{Number: n, URL: href(n), Active: n == page})
	}
	return v
}
