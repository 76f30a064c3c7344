package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/itsm-service/internal/domain"
)

type commentRepository struct {
	store *Store
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now()
	r.store.comments[comment.TicketID] = append(r.store.comments[comment.TicketID], *comment)
	return nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	comments := r.store.comments[ticketID]
	result := make([]domain.Comment, len(comments))
	copy(result, comments)
	return result, nil
}
