package domain

import "time"

// User holds the profile fields the scheduling and matching core consumes.
// Gender, profession, marital status and age are filled in by the tenant at
// their own pace; any of them may be absent.
type User struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Gender        *string   `json:"gender,omitempty"`
	Profession    *string   `json:"profession,omitempty"`
	MaritalStatus *string   `json:"marital_status,omitempty"`
	Age           *int      `json:"age,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
