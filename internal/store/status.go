package store

import "fmt"

// Status is the review state of a request.
type Status string

const (
	StatusEvaluating Status = "evaluating"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusIncomplete Status = "incomplete"
	StatusPaid       Status = "paid"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusEvaluating, StatusApproved, StatusRejected, StatusIncomplete, StatusPaid}

// ParseStatus validates s as a status name.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, s)
}

// Pending reports whether the request still awaits a final decision.
func (s Status) Pending() bool {
	return s == StatusEvaluating || s == StatusIncomplete || s == StatusApproved
}

// Permission is a right a user holds within a division.
type Permission string

const (
	PermSubmit Permission = "submit"
	PermReview Permission = "review"
	PermPay    Permission = "pay"
	PermAdmin  Permission = "admin"
)

// Permissions lists every permission in display order.
var Permissions = []Permission{PermSubmit, PermReview, PermPay, PermAdmin}

// ParsePermission validates s as a permission name.
func ParsePermission(s string) (Permission, error) {
	for _, p := range Permissions {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrInvalidPermission
}

var (
	reviewers = []Permission{PermReview, PermAdmin}
	payers    = []Permission{PermPay, PermAdmin}
)

// transitions maps a current status to the statuses it may move to and the
// division permissions allowed to make each move.
var transitions = map[Status]map[Status][]Permission{
	StatusEvaluating: {
		StatusIncomplete: reviewers,
		StatusRejected:   reviewers,
		StatusApproved:   reviewers,
	},
	StatusIncomplete: {
		StatusRejected:   reviewers,
		StatusEvaluating: reviewers,
	},
	StatusRejected: {
		StatusEvaluating: reviewers,
	},
	StatusApproved: {
		StatusEvaluating: reviewers,
		StatusPaid:       payers,
	},
	StatusPaid: {
		StatusApproved:   payers,
		StatusEvaluating: payers,
	},
}

// TransitionPermissions returns the permissions allowed to move a request
// from one status to another, or ErrInvalidTransition.
func TransitionPermissions(from, to Status) ([]Permission, error) {
	perms, ok := transitions[from][to]
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}
	return perms, nil
}

// NextStatuses returns the statuses reachable from s, in display order.
func NextStatuses(s Status) []Status {
	var out []Status
	for _, st := range Statuses {
		if _, ok := transitions[s][st]; ok {
			out = append(out, st)
		}
	}
	return out
}
