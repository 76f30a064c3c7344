package memory

import (
	"context"

	"github.com/spec-kit/itsm-service/internal/domain"
)

type historyRepository struct {
	store *Store
}

func (r *historyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	entries := r.store.history[ticketID]
	result := make([]domain.HistoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}
