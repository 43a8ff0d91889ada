package domain

import "time"

type VisitStatus string

const (
	VisitPending   VisitStatus = "pending"
	VisitConfirmed VisitStatus = "confirmed"
	VisitCancelled VisitStatus = "cancelled"
	VisitCompleted VisitStatus = "completed"
)

func ParseVisitStatus(s string) (VisitStatus, bool) {
	switch VisitStatus(s) {
	case VisitPending, VisitConfirmed, VisitCancelled, VisitCompleted:
		return VisitStatus(s), true
	default:
		return "", false
	}
}

// Visit is one tenant's request to view one property on one date.
// OwnerID is copied from the property at creation time and is not re-synced
// if the property later changes hands.
type Visit struct {
	ID         int64       `json:"id"`
	PropertyID int64       `json:"property_id"`
	OwnerID    int64       `json:"owner_id"`
	TenantID   int64       `json:"tenant_id"`
	VisitDate  time.Time   `json:"visit_date"`
	VisitTime  string      `json:"visit_time"` // free-text label, e.g. "10:30 AM"
	Status     VisitStatus `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// IsParty reports whether the given user is the tenant or the owner side of
// the visit. Only parties may mutate or delete it.
func (v *Visit) IsParty(userID int64) bool {
	return v.TenantID == userID || v.OwnerID == userID
}

// PropertySummary is the slice of property fields shown on visit listings.
type PropertySummary struct {
	Title    string `json:"title"`
	City     string `json:"city"`
	Locality string `json:"locality"`
}

// PartySummary is the counterpart contact shown on visit listings.
type PartySummary struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// VisitDetail is a visit hydrated with its property summary and the
// counterpart party (the owner when listing for a tenant, and vice versa).
type VisitDetail struct {
	Visit
	Property    PropertySummary `json:"property"`
	Counterpart PartySummary    `json:"counterpart"`
}

// VisitWithTenant pairs a visit with its tenant's profile. Tenant is nil
// when the user record no longer resolves.
type VisitWithTenant struct {
	Visit
	Tenant *User `json:"tenant,omitempty"`
}
