package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTenantNotFound    = errors.New("tenant not found")
	ErrPropertyNotFound  = errors.New("property not found")
	ErrVisitNotFound     = errors.New("visit not found")
	ErrPlanNotFound      = errors.New("subscription plan not found")
	ErrPreferencesNotSet = errors.New("preferred tenant rules not set for this property")
	ErrPreferenceExists  = errors.New("preferred tenant rules already set for this property")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrNotAuthorized     = errors.New("not authorized for this visit")
	ErrNoActiveGrant     = errors.New("no active subscription")
)

// QuotaExceededError signals that a tenant hit their daily visit-booking
// ceiling. It carries the limit so callers can show it.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily visit limit (%d) reached", e.Limit)
}
