package service

import (
	"context"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/internal/repository"
)

// HistoryService reads the per-ticket audit trail. Entries are written only
// through the ticket repository, in the same transaction as the ticket row;
// stored values stay raw and display labels are resolved on the way out.
type HistoryService struct {
	history repository.HistoryRepository
	users   repository.UserRepository
}

// NewHistoryService constructs the service.
func NewHistoryService(history repository.HistoryRepository, users repository.UserRepository) *HistoryService {
	return &HistoryService{history: history, users: users}
}

// ListResolved returns a ticket's entries oldest first with labels resolved.
func (s *HistoryService) ListResolved(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.ResolveLabels(ctx, entries)
}

// ResolveLabels replaces raw user ids in assignee entries with the user's
// name, falling back to email, then to the raw id when the user is gone.
func (s *HistoryService) ResolveLabels(ctx context.Context, entries []domain.HistoryEntry) ([]domain.HistoryEntry, error) {
	idSet := make(map[string]struct{})
	for _, entry := range entries {
		if entry.Field != domain.HistoryFieldAssignee {
			continue
		}
		if entry.OldValue != nil {
			idSet[*entry.OldValue] = struct{}{}
		}
		if entry.NewValue != nil {
			idSet[*entry.NewValue] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return entries, nil
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(users))
	for i := range users {
		labels[users[i].ID] = users[i].DisplayLabel()
	}

	resolved := make([]domain.HistoryEntry, len(entries))
	for i, entry := range entries {
		if entry.Field == domain.HistoryFieldAssignee {
			entry.OldValue = resolveLabel(entry.OldValue, labels)
			entry.NewValue = resolveLabel(entry.NewValue, labels)
		}
		resolved[i] = entry
	}
	return resolved, nil
}

// resolveLabel maps an id to its label; unresolved ids pass through unchanged.
func resolveLabel(value *string, labels map[string]string) *string {
	if value == nil {
		return nil
	}
	if label, ok := labels[*value]; ok {
		return &label
	}
	return value
}
