package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ApplicationStatus
		to   ApplicationStatus
		want bool
	}{
		{"draft to submitted", StatusDraft, StatusSubmitted, true},
		{"submitted to under review", StatusSubmitted, StatusUnderReview, true},
		{"under review to approved", StatusUnderReview, StatusApproved, true},
		{"under review to rejected", StatusUnderReview, StatusRejected, true},
		{"under review to on hold", StatusUnderReview, StatusOnHold, true},
		{"on hold resumes review", StatusOnHold, StatusUnderReview, true},
		{"on hold cannot approve directly", StatusOnHold, StatusApproved, false},
		{"draft cannot be approved", StatusDraft, StatusApproved, false},
		{"submitted cannot be rejected directly", StatusSubmitted, StatusRejected, false},
		{"approved is terminal", StatusApproved, StatusUnderReview, false},
		{"approved cannot be rejected", StatusApproved, StatusRejected, false},
		{"rejected is terminal", StatusRejected, StatusUnderReview, false},
		{"no self transition", StatusUnderReview, StatusUnderReview, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	for _, s := range []ApplicationStatus{StatusApproved, StatusRejected} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []ApplicationStatus{StatusDraft, StatusSubmitted, StatusUnderReview, StatusOnHold} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}

	// DRAFT and REJECTED applications do not block GDPR erasure.
	if StatusDraft.IsActive() || StatusRejected.IsActive() {
		t.Error("DRAFT and REJECTED must not count as active")
	}
	for _, s := range []ApplicationStatus{StatusSubmitted, StatusUnderReview, StatusOnHold, StatusApproved} {
		if !s.IsActive() {
			t.Errorf("%s should count as active", s)
		}
	}

	if ApplicationStatus("BOGUS").IsValid() {
		t.Error("unknown status must not validate")
	}
}
