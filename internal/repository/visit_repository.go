package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentnest/visits/internal/domain"
)

type VisitRepository interface {
	Create(ctx context.Context, v *domain.Visit) (*domain.Visit, error)
	GetByID(ctx context.Context, id int64) (*domain.Visit, error)
	ListForTenant(ctx context.Context, tenantID int64) ([]domain.VisitDetail, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]domain.VisitDetail, error)
	ListForProperty(ctx context.Context, propertyID int64) ([]domain.VisitWithTenant, error)
	CountForTenantBetween(ctx context.Context, tenantID int64, from, to time.Time) (int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.VisitStatus) (*domain.Visit, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type visitRepository struct {
	pool *pgxpool.Pool
}

func NewVisitRepository(pool *pgxpool.Pool) VisitRepository {
	return &visitRepository{pool: pool}
}

const visitCols = `id, property_id, owner_id, tenant_id, visit_date, visit_time, status, notes, created_at, updated_at`

func (r *visitRepository) Create(ctx context.Context, v *domain.Visit) (*domain.Visit, error) {
	const q = `INSERT INTO visits (property_id, owner_id, tenant_id, visit_date, visit_time, status, notes)
	VALUES ($1,$2,$3,$4,$5,'pending',$6)
	RETURNING ` + visitCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out domain.Visit
	err := r.pool.QueryRow(ctx, q,
		v.PropertyID, v.OwnerID, v.TenantID, v.VisitDate, v.VisitTime, v.Notes,
	).Scan(
		&out.ID, &out.PropertyID, &out.OwnerID, &out.TenantID,
		&out.VisitDate, &out.VisitTime, &out.Status, &out.Notes,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *visitRepository) GetByID(ctx context.Context, id int64) (*domain.Visit, error) {
	const q = `SELECT ` + visitCols + ` FROM visits WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var v domain.Visit
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&v.ID, &v.PropertyID, &v.OwnerID, &v.TenantID,
		&v.VisitDate, &v.VisitTime, &v.Status, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &v, err
}

// detailCols joins the property summary and the counterpart party. The
// counterpart is the owner when listing for a tenant and the tenant when
// listing for an owner.
const detailQuery = `SELECT v.id, v.property_id, v.owner_id, v.tenant_id,
	v.visit_date, v.visit_time, v.status, v.notes, v.created_at, v.updated_at,
	p.title, p.city, p.locality,
	u.full_name, u.email, u.phone
FROM visits v
JOIN properties p ON p.id = v.property_id
JOIN users u ON u.id = `

func (r *visitRepository) ListForTenant(ctx context.Context, tenantID int64) ([]domain.VisitDetail, error) {
	q := detailQuery + `v.owner_id WHERE v.tenant_id=$1 ORDER BY v.visit_date ASC, v.id ASC`
	return r.listDetails(ctx, q, tenantID)
}

func (r *visitRepository) ListForOwner(ctx context.Context, ownerID int64) ([]domain.VisitDetail, error) {
	q := detailQuery + `v.tenant_id WHERE v.owner_id=$1 ORDER BY v.visit_date ASC, v.id ASC`
	return r.listDetails(ctx, q, ownerID)
}

func (r *visitRepository) listDetails(ctx context.Context, q string, partyID int64) ([]domain.VisitDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []domain.VisitDetail
	for rows.Next() {
		var d domain.VisitDetail
		if err := rows.Scan(
			&d.ID, &d.PropertyID, &d.OwnerID, &d.TenantID,
			&d.VisitDate, &d.VisitTime, &d.Status, &d.Notes,
			&d.CreatedAt, &d.UpdatedAt,
			&d.Property.Title, &d.Property.City, &d.Property.Locality,
			&d.Counterpart.FullName, &d.Counterpart.Email, &d.Counterpart.Phone,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListForProperty returns a property's visits in creation order, each with
// the tenant profile when the user record still resolves. The LEFT JOIN
// keeps visits whose tenant has been deleted; callers decide what to do
// with those.
func (r *visitRepository) ListForProperty(ctx context.Context, propertyID int64) ([]domain.VisitWithTenant, error) {
	const q = `SELECT v.id, v.property_id, v.owner_id, v.tenant_id,
		v.visit_date, v.visit_time, v.status, v.notes, v.created_at, v.updated_at,
		u.id, u.full_name, u.email, u.phone, u.gender, u.profession, u.marital_status, u.age,
		u.created_at, u.updated_at
	FROM visits v
	LEFT JOIN users u ON u.id = v.tenant_id
	WHERE v.property_id=$1
	ORDER BY v.created_at ASC, v.id ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []domain.VisitWithTenant
	for rows.Next() {
		var vt domain.VisitWithTenant
		var (
			uID            *int64
			uName, uEmail  *string
			uPhone         *string
			uGender        *string
			uProfession    *string
			uMarital       *string
			uAge           *int
			uCreat, uUpdat *time.Time
		)
		if err := rows.Scan(
			&vt.ID, &vt.PropertyID, &vt.OwnerID, &vt.TenantID,
			&vt.VisitDate, &vt.VisitTime, &vt.Status, &vt.Notes,
			&vt.CreatedAt, &vt.UpdatedAt,
			&uID, &uName, &uEmail, &uPhone, &uGender, &uProfession, &uMarital, &uAge,
			&uCreat, &uUpdat,
		); err != nil {
			return nil, err
		}
		if uID != nil {
			vt.Tenant = &domain.User{
				ID:            *uID,
				FullName:      *uName,
				Email:         *uEmail,
				Phone:         *uPhone,
				Gender:        uGender,
				Profession:    uProfession,
				MaritalStatus: uMarital,
				Age:           uAge,
				CreatedAt:     *uCreat,
				UpdatedAt:     *uUpdat,
			}
		}
		visits = append(visits, vt)
	}
	return visits, rows.Err()
}

func (r *visitRepository) CountForTenantBetween(ctx context.Context, tenantID int64, from, to time.Time) (int, error) {
	const q = `SELECT count(*) FROM visits WHERE tenant_id=$1 AND visit_date >= $2 AND visit_date <= $3`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count int
	err := r.pool.QueryRow(ctx, q, tenantID, from, to).Scan(&count)
	return count, err
}

func (r *visitRepository) UpdateStatus(ctx context.Context, id int64, status domain.VisitStatus) (*domain.Visit, error) {
	const q = `UPDATE visits SET status=$2, updated_at=now() WHERE id=$1 RETURNING ` + visitCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var v domain.Visit
	err := r.pool.QueryRow(ctx, q, id, status).Scan(
		&v.ID, &v.PropertyID, &v.OwnerID, &v.TenantID,
		&v.VisitDate, &v.VisitTime, &v.Status, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &v, err
}

func (r *visitRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM visits WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
