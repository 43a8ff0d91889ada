// Package quota decides whether a tenant may book one more property visit
// on a given calendar day. The daily ceiling comes from the subscription
// plan active at booking time; tenants without an active grant fall back to
// a fixed default. Admission uses an atomic day counter so concurrent
// booking requests cannot jointly exceed the limit.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/rentnest/visits/internal/domain"
)

// Counter is the per-tenant-per-day reservation counter. Increment must be
// atomic across concurrent callers. Seed is the authoritative booking count
// from the store, applied only when the counter does not exist yet.
type Counter interface {
	Increment(ctx context.Context, tenantID int64, day time.Time, seed int) (int, error)
	Decrement(ctx context.Context, tenantID int64, day time.Time) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type GrantGetter interface {
	ActiveGrantFor(ctx context.Context, partyID int64, asOf time.Time) (*domain.GrantWithPlan, error)
}

type VisitCounter interface {
	CountForTenantBetween(ctx context.Context, tenantID int64, from, to time.Time) (int, error)
}

type Evaluator struct {
	users        UserGetter
	grants       GrantGetter
	visits       VisitCounter
	counter      Counter
	defaultLimit int
	now          func() time.Time
}

func NewEvaluator(users UserGetter, grants GrantGetter, visits VisitCounter, counter Counter, defaultLimit int) *Evaluator {
	return &Evaluator{
		users:        users,
		grants:       grants,
		visits:       visits,
		counter:      counter,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// WithClock overrides the evaluator's clock. Tests use this to pin "now".
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// Limit resolves the tenant's daily booking ceiling from the subscription
// grant active right now. Quota rules follow the plan held at booking time,
// not whichever plan might be active on the visit's scheduled date.
func (e *Evaluator) Limit(ctx context.Context, tenantID int64) (int, error) {
	tenant, err := e.users.GetByID(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("resolve tenant: %w", err)
	}
	if tenant == nil {
		return 0, domain.ErrTenantNotFound
	}

	grant, err := e.grants.ActiveGrantFor(ctx, tenantID, e.now())
	if err != nil {
		return 0, fmt.Errorf("resolve active grant: %w", err)
	}
	if grant == nil || grant.Plan.DailyLimit <= 0 {
		return e.defaultLimit, nil
	}
	return grant.Plan.DailyLimit, nil
}

// Evaluate is the read-only admission check: it reports how many bookings
// the tenant already has on the target day and the applicable limit, and
// fails with QuotaExceededError when the day is full. It reserves nothing.
func (e *Evaluator) Evaluate(ctx context.Context, tenantID int64, date time.Time) (used, limit int, err error) {
	limit, err = e.Limit(ctx, tenantID)
	if err != nil {
		return 0, 0, err
	}

	from, to := DayBounds(date)
	used, err = e.visits.CountForTenantBetween(ctx, tenantID, from, to)
	if err != nil {
		return 0, 0, fmt.Errorf("count day bookings: %w", err)
	}
	if used >= limit {
		return used, limit, &domain.QuotaExceededError{Limit: limit}
	}
	return used, limit, nil
}

// Reserve atomically claims one booking slot for the day. The counter is
// seeded from the store count on first use, then incremented; a result over
// the limit is rolled back and rejected. Callers must Release the slot when
// the subsequent insert fails.
func (e *Evaluator) Reserve(ctx context.Context, tenantID int64, date time.Time) (used, limit int, err error) {
	limit, err = e.Limit(ctx, tenantID)
	if err != nil {
		return 0, 0, err
	}

	from, to := DayBounds(date)
	seed, err := e.visits.CountForTenantBetween(ctx, tenantID, from, to)
	if err != nil {
		return 0, 0, fmt.Errorf("count day bookings: %w", err)
	}

	used, err = e.counter.Increment(ctx, tenantID, date, seed)
	if err != nil {
		return 0, 0, fmt.Errorf("reserve booking slot: %w", err)
	}
	if used > limit {
		if derr := e.counter.Decrement(ctx, tenantID, date); derr != nil {
			return 0, 0, fmt.Errorf("roll back over-limit reservation: %w", derr)
		}
		return used - 1, limit, &domain.QuotaExceededError{Limit: limit}
	}
	return used, limit, nil
}

// Release gives a slot back when its booking goes away, either because the
// insert failed or because the booking was deleted. Releasing a day whose
// counter was never seeded (or has expired) is a no-op; the next Reserve
// re-seeds from the store count, which no longer includes the booking.
func (e *Evaluator) Release(ctx context.Context, tenantID int64, date time.Time) error {
	return e.counter.Decrement(ctx, tenantID, date)
}

// DayBounds returns the inclusive [00:00:00.000, 23:59:59.999] window of
// the calendar day holding t.
func DayBounds(t time.Time) (from, to time.Time) {
	y, m, d := t.Date()
	from = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	to = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return from, to
}
