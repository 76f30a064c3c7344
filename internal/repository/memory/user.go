package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/itsm-service/internal/domain"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.createLocked(user)
}

func (r *userRepository) createLocked(user *domain.User) error {
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = copyUser(user)
	r.store.userOrder = append(r.store.userOrder, user.ID)
	return nil
}

func (r *userRepository) CreateWithTenant(ctx context.Context, tenant *domain.Tenant, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tenant.ID = uuid.NewString()
	tenant.CreatedAt = time.Now()
	clone := *tenant
	r.store.tenants[tenant.ID] = &clone

	user.TenantID = tenant.ID
	return r.createLocked(user)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyUser(user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, user := range r.store.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepository) GetByIDInTenant(ctx context.Context, tenantID, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[id]
	if !ok || user.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return copyUser(user), nil
}

func (r *userRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.User
	for _, id := range r.store.userOrder {
		user, ok := r.store.users[id]
		if !ok || user.TenantID != tenantID {
			continue
		}
		result = append(result, *copyUser(user))
	}
	// newest first, matching the Postgres ordering
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.User
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			result = append(result, *copyUser(user))
		}
	}
	return result, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.users, id)
	return nil
}
