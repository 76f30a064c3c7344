package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/internal/repository"
)

type ticketRepository struct {
	store *Store
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.store.tickets[ticket.ID] = copyTicket(ticket)
	r.store.ticketOrder = append(r.store.ticketOrder, ticket.ID)
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ticket, ok := r.store.tickets[id]
	if !ok || ticket.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return r.loadLocked(ticket), nil
}

func (r *ticketRepository) List(ctx context.Context, tenantID string, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Ticket
	for _, id := range r.store.ticketOrder {
		ticket, ok := r.store.tickets[id]
		if !ok || ticket.TenantID != tenantID {
			continue
		}
		if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
			continue
		}
		result = append(result, *r.loadLocked(ticket))
	}
	return result, nil
}

func (r *ticketRepository) UpdateWithHistory(ctx context.Context, ticket *domain.Ticket, entries []domain.HistoryEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.tickets[ticket.ID]
	if !ok || existing.TenantID != ticket.TenantID {
		return pgx.ErrNoRows
	}
	ticket.CreatedAt = existing.CreatedAt
	ticket.UpdatedAt = time.Now()
	r.store.tickets[ticket.ID] = copyTicket(ticket)

	for _, entry := range entries {
		entry.ID = uuid.NewString()
		entry.CreatedAt = time.Now()
		r.store.history[entry.TicketID] = append(r.store.history[entry.TicketID], entry)
	}
	return nil
}

// loadLocked produces a detached copy with eager-loaded associations.
func (r *ticketRepository) loadLocked(ticket *domain.Ticket) *domain.Ticket {
	clone := copyTicket(ticket)
	if category, ok := r.store.categories[ticket.CategoryID]; ok {
		clone.Category = copyCategory(category)
	}
	if ticket.AssigneeID != nil {
		if user, ok := r.store.users[*ticket.AssigneeID]; ok {
			clone.Assignee = copyUser(user)
		}
	}
	return clone
}
