package domain

import "time"

// Property is the subset of the listing aggregate the scheduling core reads.
// PID is the human-facing listing code (e.g. "REN0042"); ID is internal.
type Property struct {
	ID        int64     `json:"id"`
	PID       string    `json:"pid"`
	Title     string    `json:"title"`
	City      string    `json:"city"`
	Locality  string    `json:"locality"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
