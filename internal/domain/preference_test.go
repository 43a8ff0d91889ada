package domain_test

import (
	"testing"

	"github.com/rentnest/visits/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestPreferenceScore(t *testing.T) {
	fullPref := &domain.TenantPreference{
		Gender:        strPtr("female"),
		Profession:    strPtr("engineer"),
		MaritalStatus: strPtr("married"),
		MinAge:        intPtr(25),
		MaxAge:        intPtr(35),
	}

	tests := []struct {
		name   string
		pref   *domain.TenantPreference
		tenant *domain.User
		want   int
	}{
		{
			name: "all criteria match",
			pref: fullPref,
			tenant: &domain.User{
				Gender:        strPtr("female"),
				Profession:    strPtr("engineer"),
				MaritalStatus: strPtr("married"),
				Age:           intPtr(30),
			},
			want: 7,
		},
		{
			name: "gender and profession only",
			pref: fullPref,
			tenant: &domain.User{
				Gender:     strPtr("female"),
				Profession: strPtr("engineer"),
			},
			want: 4,
		},
		{
			name: "age at lower bound is inclusive",
			pref: fullPref,
			tenant: &domain.User{
				Age: intPtr(25),
			},
			want: 2,
		},
		{
			name: "age at upper bound is inclusive",
			pref: fullPref,
			tenant: &domain.User{
				Age: intPtr(35),
			},
			want: 2,
		},
		{
			name: "age just outside the range",
			pref: fullPref,
			tenant: &domain.User{
				Age: intPtr(36),
			},
			want: 0,
		},
		{
			name: "marital status alone is worth one",
			pref: fullPref,
			tenant: &domain.User{
				MaritalStatus: strPtr("married"),
			},
			want: 1,
		},
		{
			name:   "blank tenant profile scores zero",
			pref:   fullPref,
			tenant: &domain.User{},
			want:   0,
		},
		{
			name: "undeclared criteria never contribute",
			pref: &domain.TenantPreference{},
			tenant: &domain.User{
				Gender:        strPtr("female"),
				Profession:    strPtr("engineer"),
				MaritalStatus: strPtr("married"),
				Age:           intPtr(30),
			},
			want: 0,
		},
		{
			name: "mismatched values score zero, not negative",
			pref: fullPref,
			tenant: &domain.User{
				Gender:     strPtr("male"),
				Profession: strPtr("teacher"),
				Age:        intPtr(50),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pref.Score(tt.tenant); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseTenantType(t *testing.T) {
	for _, s := range []string{"Family", "Bachelors", "Anyone", "Working Professionals", "Students"} {
		if _, ok := domain.ParseTenantType(s); !ok {
			t.Errorf("ParseTenantType(%q) rejected a valid type", s)
		}
	}
	for _, s := range []string{"family", "Couples", ""} {
		if _, ok := domain.ParseTenantType(s); ok {
			t.Errorf("ParseTenantType(%q) accepted an unknown type", s)
		}
	}
}
