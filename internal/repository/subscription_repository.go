package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentnest/visits/internal/domain"
)

type SubscriptionRepository interface {
	GetPlan(ctx context.Context, id int64) (*domain.Plan, error)
	// ActiveGrantFor resolves the grant whose date window contains asOf for
	// either side of the marketplace. The stored is_expired flag is ignored;
	// activity is derived from the dates alone.
	ActiveGrantFor(ctx context.Context, partyID int64, asOf time.Time) (*domain.GrantWithPlan, error)
	CreateGrant(ctx context.Context, g *domain.Grant) (*domain.Grant, error)
	HistoryFor(ctx context.Context, partyID int64) ([]domain.GrantWithPlan, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const planCols = `id, name, price, duration_days, visit_credits, daily_limit, created_at, updated_at`
const grantCols = `id, owner_id, tenant_id, plan_id, start_date, end_date, is_expired`

func (r *subscriptionRepository) GetPlan(ctx context.Context, id int64) (*domain.Plan, error) {
	const q = `SELECT ` + planCols + ` FROM subscription_plans WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Plan
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.DurationDays, &p.VisitCredits, &p.DailyLimit,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

func (r *subscriptionRepository) ActiveGrantFor(ctx context.Context, partyID int64, asOf time.Time) (*domain.GrantWithPlan, error) {
	const q = `SELECT g.id, g.owner_id, g.tenant_id, g.plan_id, g.start_date, g.end_date, g.is_expired,
		p.id, p.name, p.price, p.duration_days, p.visit_credits, p.daily_limit, p.created_at, p.updated_at
	FROM subscription_grants g
	JOIN subscription_plans p ON p.id = g.plan_id
	WHERE (g.tenant_id=$1 OR g.owner_id=$1) AND g.start_date <= $2 AND g.end_date >= $2
	ORDER BY g.start_date DESC
	LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var gp domain.GrantWithPlan
	err := r.pool.QueryRow(ctx, q, partyID, asOf).Scan(
		&gp.ID, &gp.OwnerID, &gp.TenantID, &gp.PlanID, &gp.StartDate, &gp.EndDate, &gp.IsExpired,
		&gp.Plan.ID, &gp.Plan.Name, &gp.Plan.Price, &gp.Plan.DurationDays,
		&gp.Plan.VisitCredits, &gp.Plan.DailyLimit, &gp.Plan.CreatedAt, &gp.Plan.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &gp, err
}

func (r *subscriptionRepository) CreateGrant(ctx context.Context, g *domain.Grant) (*domain.Grant, error) {
	const q = `INSERT INTO subscription_grants (owner_id, tenant_id, plan_id, start_date, end_date, is_expired)
	VALUES ($1,$2,$3,$4,$5,false)
	RETURNING ` + grantCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out domain.Grant
	err := r.pool.QueryRow(ctx, q,
		g.OwnerID, g.TenantID, g.PlanID, g.StartDate, g.EndDate,
	).Scan(
		&out.ID, &out.OwnerID, &out.TenantID, &out.PlanID,
		&out.StartDate, &out.EndDate, &out.IsExpired,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *subscriptionRepository) HistoryFor(ctx context.Context, partyID int64) ([]domain.GrantWithPlan, error) {
	const q = `SELECT g.id, g.owner_id, g.tenant_id, g.plan_id, g.start_date, g.end_date, g.is_expired,
		p.id, p.name, p.price, p.duration_days, p.visit_credits, p.daily_limit, p.created_at, p.updated_at
	FROM subscription_grants g
	JOIN subscription_plans p ON p.id = g.plan_id
	WHERE g.tenant_id=$1 OR g.owner_id=$1
	ORDER BY g.start_date DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []domain.GrantWithPlan
	for rows.Next() {
		var gp domain.GrantWithPlan
		if err := rows.Scan(
			&gp.ID, &gp.OwnerID, &gp.TenantID, &gp.PlanID, &gp.StartDate, &gp.EndDate, &gp.IsExpired,
			&gp.Plan.ID, &gp.Plan.Name, &gp.Plan.Price, &gp.Plan.DurationDays,
			&gp.Plan.VisitCredits, &gp.Plan.DailyLimit, &gp.Plan.CreatedAt, &gp.Plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		grants = append(grants, gp)
	}
	return grants, rows.Err()
}
