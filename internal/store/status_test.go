package store

import (
	"errors"
	"testing"
)

func TestTransitionPermissions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     []Permission
		wantErr  bool
	}{
		{StatusEvaluating, StatusApproved, reviewers, false},
		{StatusEvaluating, StatusIncomplete, reviewers, false},
		{StatusEvaluating, StatusRejected, reviewers, false},
		{StatusEvaluating, StatusPaid, nil, true},
		{StatusIncomplete, StatusEvaluating, reviewers, false},
		{StatusIncomplete, StatusApproved, nil, true},
		{StatusRejected, StatusEvaluating, reviewers, false},
		{StatusRejected, StatusApproved, nil, true},
		{StatusApproved, StatusPaid, payers, false},
		{StatusApproved, StatusEvaluating, reviewers, false},
		{StatusPaid, StatusApproved, payers, false},
		{StatusPaid, StatusEvaluating, payers, false},
		{StatusPaid, StatusRejected, nil, true},
	}
	for _, tt := range tests {
		got, err := TransitionPermissions(tt.from, tt.to)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s->%s error = %v, want ErrInvalidTransition", tt.from, tt.to, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s->%s: %v", tt.from, tt.to, err)
			continue
		}
		if len(got) != len(tt.want) || got[0] != tt.want[0] {
			t.Errorf("%s->%s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNextStatuses(t *testing.T) {
	got := NextStatuses(StatusEvaluating)
	want := []Status{StatusApproved, StatusRejected, StatusIncomplete}
	if len(got) != len(want) {
		t.Fatalf("NextStatuses(evaluating) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NextStatuses(evaluating)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseStatusAndPermission(t *testing.T) {
	if _, err := ParseStatus("paid"); err != nil {
		t.Errorf("ParseStatus(paid): %v", err)
	}
	if _, err := ParseStatus("bogus"); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("ParseStatus(bogus) error = %v, want ErrInvalidFilter", err)
	}
	if _, err := ParsePermission("pay"); err != nil {
		t.Errorf("ParsePermission(pay): %v", err)
	}
	if _, err := ParsePermission("boss"); !errors.Is(err, ErrInvalidPermission) {
		t.Errorf("ParsePermission(boss) error = %v, want ErrInvalidPermission", err)
	}
	if !StatusApproved.Pending() || StatusPaid.Pending() {
		t.Error("Pending() wrong for approved/paid")
	}
}
