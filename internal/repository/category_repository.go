package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-service/internal/domain"
)

// CategoryRepository encapsulates category persistence. Reads carry the
// per-node ticket count; counts never roll up descendants.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Category, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Category, error)
	Delete(ctx context.Context, tenantID, id string) error
	CountTickets(ctx context.Context, tenantID, categoryID string) (int, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name, description, parent_id, tenant_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.Description,
		category.ParentID,
		category.TenantID,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, description=$2, parent_id=$3, updated_at=NOW()
        WHERE id=$4 AND tenant_id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Description,
		category.ParentID,
		category.ID,
		category.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Category, error) {
	const query = `
        SELECT c.id, c.name, c.description, c.parent_id, c.tenant_id, c.created_at, c.updated_at,
               COUNT(t.id)
        FROM categories c
        LEFT JOIN tickets t ON t.category_id = c.id
        WHERE c.id=$1 AND c.tenant_id=$2
        GROUP BY c.id`

	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, id, tenantID).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.ParentID,
		&category.TenantID,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.TicketsCount,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Category, error) {
	const query = `
        SELECT c.id, c.name, c.description, c.parent_id, c.tenant_id, c.created_at, c.updated_at,
               COUNT(t.id)
        FROM categories c
        LEFT JOIN tickets t ON t.category_id = c.id
        WHERE c.tenant_id=$1
        GROUP BY c.id
        ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.ParentID,
			&category.TenantID,
			&category.CreatedAt,
			&category.UpdatedAt,
			&category.TicketsCount,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *categoryRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) CountTickets(ctx context.Context, tenantID, categoryID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE category_id=$1 AND tenant_id=$2`
	var count int
	if err := r.pool.QueryRow(ctx, query, categoryID, tenantID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
