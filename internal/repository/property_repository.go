package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentnest/visits/internal/domain"
)

type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	GetByPID(ctx context.Context, pid string) (*domain.Property, error)
}

type propertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) PropertyRepository {
	return &propertyRepository{pool: pool}
}

const propertyCols = `id, pid, title, city, locality, owner_id, created_at, updated_at`

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	const q = `SELECT ` + propertyCols + ` FROM properties WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Property
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.PID, &p.Title, &p.City, &p.Locality, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

func (r *propertyRepository) GetByPID(ctx context.Context, pid string) (*domain.Property, error) {
	const q = `SELECT ` + propertyCols + ` FROM properties WHERE pid=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Property
	err := r.pool.QueryRow(ctx, q, pid).Scan(
		&p.ID, &p.PID, &p.Title, &p.City, &p.Locality, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &p, err
}
