package domain_test

import (
	"testing"

	"github.com/rentnest/visits/internal/domain"
)

func TestParseVisitStatus(t *testing.T) {
	valid := []string{"pending", "confirmed", "cancelled", "completed"}
	for _, s := range valid {
		got, ok := domain.ParseVisitStatus(s)
		if !ok {
			t.Errorf("ParseVisitStatus(%q) rejected a valid status", s)
		}
		if string(got) != s {
			t.Errorf("ParseVisitStatus(%q) = %q", s, got)
		}
	}

	invalid := []string{"archived", "Pending", "CONFIRMED", "done", ""}
	for _, s := range invalid {
		if _, ok := domain.ParseVisitStatus(s); ok {
			t.Errorf("ParseVisitStatus(%q) accepted an unknown status", s)
		}
	}
}

func TestVisitIsParty(t *testing.T) {
	v := &domain.Visit{TenantID: 7, OwnerID: 42}

	if !v.IsParty(7) {
		t.Error("tenant should be a party to the visit")
	}
	if !v.IsParty(42) {
		t.Error("owner should be a party to the visit")
	}
	if v.IsParty(99) {
		t.Error("unrelated user should not be a party to the visit")
	}
}
