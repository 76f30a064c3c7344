package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/itsm-service/internal/domain"
)

type categoryRepository struct {
	store *Store
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.store.categories[category.ID] = copyCategory(category)
	r.store.categoryOrder = append(r.store.categoryOrder, category.ID)
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.categories[category.ID]
	if !ok || existing.TenantID != category.TenantID {
		return pgx.ErrNoRows
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	r.store.categories[category.ID] = copyCategory(category)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	category, ok := r.store.categories[id]
	if !ok || category.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	clone := copyCategory(category)
	clone.TicketsCount = r.countTicketsLocked(id)
	return clone, nil
}

func (r *categoryRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Category
	for _, id := range r.store.categoryOrder {
		category, ok := r.store.categories[id]
		if !ok || category.TenantID != tenantID {
			continue
		}
		clone := copyCategory(category)
		clone.TicketsCount = r.countTicketsLocked(id)
		result = append(result, *clone)
	}
	return result, nil
}

func (r *categoryRepository) Delete(ctx context.Context, tenantID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	category, ok := r.store.categories[id]
	if !ok || category.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	delete(r.store.categories, id)

	// FK semantics: tickets in the category go away, children re-root.
	for ticketID, ticket := range r.store.tickets {
		if ticket.CategoryID == id {
			delete(r.store.tickets, ticketID)
		}
	}
	for _, child := range r.store.categories {
		if child.ParentID != nil && *child.ParentID == id {
			child.ParentID = nil
		}
	}
	return nil
}

func (r *categoryRepository) CountTickets(ctx context.Context, tenantID, categoryID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, ticket := range r.store.tickets {
		if ticket.CategoryID == categoryID && ticket.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (r *categoryRepository) countTicketsLocked(categoryID string) int {
	count := 0
	for _, ticket := range r.store.tickets {
		if ticket.CategoryID == categoryID {
			count++
		}
	}
	return count
}
