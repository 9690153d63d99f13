package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmnet/backend/internal/domain"
)

type ResourceRepo struct {
	pool *pgxpool.Pool
}

func NewResourceRepo(pool *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{pool: pool}
}

func (r *ResourceRepo) Create(ctx context.Context, resource *domain.Resource) error {
	query := `
		INSERT INTO resources (id, name, status, owner, contact, location, next_available, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		resource.ID, resource.Name, resource.Status, resource.Owner,
		resource.Contact, resource.Location, resource.NextAvailable,
		resource.CreatedBy, resource.CreatedAt,
	)
	return err
}

func (r *ResourceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	query := `
		SELECT id, name, status, owner, contact, location, next_available, created_by, created_at
		FROM resources
		WHERE id = $1`
	var res domain.Resource
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.Name, &res.Status, &res.Owner, &res.Contact,
		&res.Location, &res.NextAvailable, &res.CreatedBy, &res.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ResourceRepo) List(ctx context.Context) ([]domain.Resource, error) {
	query := `
		SELECT id, name, status, owner, contact, location, next_available, created_by, created_at
		FROM resources
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(
			&res.ID, &res.Name, &res.Status, &res.Owner, &res.Contact,
			&res.Location, &res.NextAvailable, &res.CreatedBy, &res.CreatedAt,
		); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *ResourceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status, nextAvailable string) error {
	query := `UPDATE resources SET status = $1, next_available = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, status, nextAvailable, id)
	return err
}

func (r *ResourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	return err
}
