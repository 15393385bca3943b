package domain

import (
	"errors"
	"testing"
)

func TestReviewTransitions(t *testing.T) {
	p := &Prescription{Status: StatusPending}
	if err := p.Approve("valid"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if p.Status != StatusApproved || p.ReviewerNote != "valid" {
		t.Errorf("prescription = %+v", p)
	}

	// 已审核不可再次流转
	if err := p.Reject("no"); !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("err = %v, want ErrAlreadyReviewed", err)
	}

	p2 := &Prescription{Status: StatusPending}
	if err := p2.Reject("illegible"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if p2.Status != StatusRejected {
		t.Errorf("status = %s, want REJECTED", p2.Status)
	}
}
