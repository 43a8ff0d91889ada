package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentnest/visits/internal/domain"
)

type PreferenceRepository interface {
	Create(ctx context.Context, p *domain.TenantPreference) (*domain.TenantPreference, error)
	GetByProperty(ctx context.Context, propertyID int64) (*domain.TenantPreference, error)
	ListForOwner(ctx context.Context, ownerID int64, propertyID *int64) ([]domain.TenantPreference, error)
	// Update and Delete are owner-scoped: acting on another owner's profile
	// behaves as not-found.
	Update(ctx context.Context, id, ownerID int64, p *domain.TenantPreference) (*domain.TenantPreference, error)
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}

type preferenceRepository struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) PreferenceRepository {
	return &preferenceRepository{pool: pool}
}

const preferenceCols = `id, owner_id, property_id, tenant_types, notes,
gender, profession, marital_status, min_age, max_age, created_at, updated_at`

func scanPreference(row pgx.Row) (*domain.TenantPreference, error) {
	var p domain.TenantPreference
	var types []string
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.PropertyID, &types, &p.Notes,
		&p.Gender, &p.Profession, &p.MaritalStatus, &p.MinAge, &p.MaxAge,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.TenantTypes = make([]domain.TenantType, 0, len(types))
	for _, t := range types {
		p.TenantTypes = append(p.TenantTypes, domain.TenantType(t))
	}
	return &p, nil
}

func typeStrings(types []domain.TenantType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func (r *preferenceRepository) Create(ctx context.Context, p *domain.TenantPreference) (*domain.TenantPreference, error) {
	const q = `INSERT INTO tenant_preferences
		(owner_id, property_id, tenant_types, notes, gender, profession, marital_status, min_age, max_age)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	RETURNING ` + preferenceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanPreference(r.pool.QueryRow(ctx, q,
		p.OwnerID, p.PropertyID, typeStrings(p.TenantTypes), p.Notes,
		p.Gender, p.Profession, p.MaritalStatus, p.MinAge, p.MaxAge,
	))
}

func (r *preferenceRepository) GetByProperty(ctx context.Context, propertyID int64) (*domain.TenantPreference, error) {
	const q = `SELECT ` + preferenceCols + ` FROM tenant_preferences WHERE property_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPreference(r.pool.QueryRow(ctx, q, propertyID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *preferenceRepository) ListForOwner(ctx context.Context, ownerID int64, propertyID *int64) ([]domain.TenantPreference, error) {
	q := `SELECT ` + preferenceCols + ` FROM tenant_preferences WHERE owner_id=$1`
	args := []any{ownerID}
	if propertyID != nil {
		q += ` AND property_id=$2`
		args = append(args, *propertyID)
	}
	q += ` ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []domain.TenantPreference
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, *p)
	}
	return prefs, rows.Err()
}

func (r *preferenceRepository) Update(ctx context.Context, id, ownerID int64, p *domain.TenantPreference) (*domain.TenantPreference, error) {
	const q = `UPDATE tenant_preferences SET
		tenant_types=$3, notes=$4, gender=$5, profession=$6, marital_status=$7,
		min_age=$8, max_age=$9, updated_at=now()
	WHERE id=$1 AND owner_id=$2
	RETURNING ` + preferenceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out, err := scanPreference(r.pool.QueryRow(ctx, q,
		id, ownerID, typeStrings(p.TenantTypes), p.Notes,
		p.Gender, p.Profession, p.MaritalStatus, p.MinAge, p.MaxAge,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return out, err
}

func (r *preferenceRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	const q = `DELETE FROM tenant_preferences WHERE id=$1 AND owner_id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
