package domain

import "time"

type TenantType string

const (
	TenantTypeFamily        TenantType = "Family"
	TenantTypeBachelors     TenantType = "Bachelors"
	TenantTypeAnyone        TenantType = "Anyone"
	TenantTypeProfessionals TenantType = "Working Professionals"
	TenantTypeStudents      TenantType = "Students"
)

func ParseTenantType(s string) (TenantType, bool) {
	switch TenantType(s) {
	case TenantTypeFamily, TenantTypeBachelors, TenantTypeAnyone, TenantTypeProfessionals, TenantTypeStudents:
		return TenantType(s), true
	default:
		return "", false
	}
}

// TenantPreference is an owner's declared ideal-tenant rules for one
// property. At most one exists per (owner, property) pair. The matching
// criteria are all optional; an undeclared criterion never affects scoring.
type TenantPreference struct {
	ID            int64        `json:"id"`
	OwnerID       int64        `json:"owner_id"`
	PropertyID    int64        `json:"property_id"`
	TenantTypes   []TenantType `json:"tenant_types"`
	Notes         string       `json:"notes,omitempty"`
	Gender        *string      `json:"gender,omitempty"`
	Profession    *string      `json:"profession,omitempty"`
	MaritalStatus *string      `json:"marital_status,omitempty"`
	MinAge        *int         `json:"min_age,omitempty"`
	MaxAge        *int         `json:"max_age,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Score computes the preference-match score for a tenant. Each declared
// criterion contributes only when the tenant has the corresponding value:
// gender and profession matches are worth 2, marital status 1, and an age
// inside the inclusive [MinAge, MaxAge] range 2. Absent values on either
// side contribute zero rather than penalising the tenant.
func (p *TenantPreference) Score(t *User) int {
	score := 0

	if p.Gender != nil && t.Gender != nil && *t.Gender == *p.Gender {
		score += 2
	}
	if p.Profession != nil && t.Profession != nil && *t.Profession == *p.Profession {
		score += 2
	}
	if p.MaritalStatus != nil && t.MaritalStatus != nil && *t.MaritalStatus == *p.MaritalStatus {
		score += 1
	}
	if p.MinAge != nil && p.MaxAge != nil && t.Age != nil {
		if *t.Age >= *p.MinAge && *t.Age <= *p.MaxAge {
			score += 2
		}
	}

	return score
}

// RankedTenant is one entry of a property's ranked tenant list.
type RankedTenant struct {
	Tenant    *User     `json:"tenant"`
	VisitDate time.Time `json:"visit_date"`
	VisitTime string    `json:"visit_time"`
	Score     int       `json:"score"`
}
