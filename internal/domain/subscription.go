package domain

import "time"

// Plan is a purchasable subscription tier. DailyLimit caps the number of
// visit bookings a subscriber may create per calendar day.
type Plan struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"` // smallest currency unit
	DurationDays int       `json:"duration_days"`
	VisitCredits int       `json:"visit_credits"`
	DailyLimit   int       `json:"daily_limit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Grant binds an owner or a tenant (exactly one of the two) to a plan for a
// date window.
type Grant struct {
	ID        int64     `json:"id"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	TenantID  *int64    `json:"tenant_id,omitempty"`
	PlanID    int64     `json:"plan_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	// IsExpired is a stored convenience flag. Activity is always derived
	// from the date window; the flag can lag behind and is never trusted
	// on its own.
	IsExpired bool `json:"is_expired"`
}

// ActiveAt reports whether the grant's window contains the given moment.
func (g *Grant) ActiveAt(now time.Time) bool {
	return !now.Before(g.StartDate) && !now.After(g.EndDate)
}

// GrantWithPlan is a grant hydrated with its plan.
type GrantWithPlan struct {
	Grant
	Plan Plan `json:"plan"`
}
