package listing

import "github.com/evesrp/evesrp/internal/store"

// Scope is one of the fixed request lists under /requests/.
type Scope struct {
	Name  string
	Title string
	// Personal lists the viewer's own submissions in every division.
	Personal bool
	// Perms are the division permissions that make a division's requests
	// visible in this list.
	Perms []store.Permission
	// Statuses limits the list, when non-empty.
	Statuses []store.Status
}

var anyOfficer = []store.Permission{store.PermReview, store.PermPay, store.PermAdmin}

// Scopes lists every request list in navigation order.
var Scopes = []Scope{
	{Name: "personal", Title: "Personal Requests", Personal: true},
	{
		Name:     "review",
		Title:    "Pending Review",
		Perms:    []store.Permission{store.PermReview, store.PermAdmin},
		Statuses: []store.Status{store.StatusEvaluating, store.StatusIncomplete, store.StatusApproved},
	},
	{
		Name:     "pay",
		Title:    "Pay Outs",
		Perms:    []store.Permission{store.PermPay, store.PermAdmin},
		Statuses: []store.Status{store.StatusApproved},
	},
	{
		Name:     "completed",
		Title:    "Completed Requests",
		Perms:    anyOfficer,
		Statuses: []store.Status{store.StatusPaid, store.StatusRejected},
	},
	{Name: "all", Title: "All Requests", Perms: anyOfficer},
}

// LookupScope returns the scope called name.
func LookupScope(name string) (Scope, bool) {
	for _, s := range Scopes {
		if s.Name == name {
			return s, true
		}
	}
	return Scope{}, false
}
