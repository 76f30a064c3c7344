package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/internal/events"
	"github.com/spec-kit/itsm-service/internal/repository"
	"github.com/spec-kit/itsm-service/pkg/util"
)

// TicketService coordinates ticket workflows. Every field change detected by
// Update lands as one history entry, written in the same transaction as the
// ticket row.
type TicketService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	history    *HistoryService
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	CommentRepo  repository.CommentRepository
	UserRepo     repository.UserRepository
	History      *HistoryService
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	CategoryID  string
	AssigneeID  *string
}

// TicketPatch describes a partial ticket update. Unset fields are untouched;
// an explicit null clears description or assignee.
type TicketPatch struct {
	Title       util.Optional[string]
	Description util.Optional[string]
	Status      util.Optional[domain.TicketStatus]
	Priority    util.Optional[domain.TicketPriority]
	AssigneeID  util.Optional[string]
}

func (p TicketPatch) empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Status.Set && !p.Priority.Set && !p.AssigneeID.Set
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		history:    deps.History,
		dispatcher: deps.Dispatcher,
	}
}

// Create validates and stores a new ticket in the caller's tenant.
func (s *TicketService) Create(ctx context.Context, tenantID, actorID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, util.NewValidationError("title is required", nil)
	}
	if input.CategoryID == "" {
		return nil, util.NewValidationError("categoryId is required", nil)
	}
	if _, err := s.categories.GetByID(ctx, tenantID, input.CategoryID); err != nil {
		if util.IsNotFound(err) {
			return nil, util.NewValidationError("category not found", nil)
		}
		return nil, err
	}

	status := domain.TicketStatusTodo
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, util.NewValidationError("invalid status", nil)
		}
		status = *input.Status
	}
	priority := domain.TicketPriorityMedium
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, util.NewValidationError("invalid priority", nil)
		}
		priority = *input.Priority
	}
	if input.AssigneeID != nil {
		if _, err := s.users.GetByIDInTenant(ctx, tenantID, *input.AssigneeID); err != nil {
			if util.IsNotFound(err) {
				return nil, util.NewValidationError("assignee not found", nil)
			}
			return nil, err
		}
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		CategoryID:  input.CategoryID,
		AssigneeID:  input.AssigneeID,
		TenantID:    tenantID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	created, err := s.tickets.GetByID(ctx, tenantID, ticket.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TenantID: tenantID,
		TicketID: created.ID,
		ActorID:  actorID,
		Payload: events.TicketCreatedPayload{
			CategoryID: created.CategoryID,
			Priority:   created.Priority,
			Title:      created.Title,
		},
	})
	return created, nil
}

// Get fetches one ticket within the tenant, associations loaded.
func (s *TicketService) Get(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, tenantID, id)
}

// List returns tenant tickets, oldest first, optionally narrowed to one category.
func (s *TicketService) List(ctx context.Context, tenantID string, categoryID *string) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, tenantID, repository.TicketFilter{CategoryID: categoryID})
}

// Update applies a partial patch. Each field in the patch whose value differs
// from the stored one produces a history entry attributed to the acting user;
// the ticket row and the entries commit atomically.
func (s *TicketService) Update(ctx context.Context, tenantID, actorID, id string, patch TicketPatch) (*domain.Ticket, error) {
	prior, err := s.tickets.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if patch.empty() {
		return prior, nil
	}

	updated := *prior
	var entries []domain.HistoryEntry
	addEntry := func(field string, oldValue, newValue *string) {
		entries = append(entries, domain.HistoryEntry{
			TicketID: id,
			UserID:   actorID,
			Field:    field,
			OldValue: oldValue,
			NewValue: newValue,
		})
	}

	if patch.Title.Set {
		if patch.Title.Value == nil || strings.TrimSpace(*patch.Title.Value) == "" {
			return nil, util.NewValidationError("title cannot be empty", nil)
		}
		title := strings.TrimSpace(*patch.Title.Value)
		if title != prior.Title {
			addEntry(domain.HistoryFieldTitle, strPtr(prior.Title), strPtr(title))
		}
		updated.Title = title
	}
	if patch.Description.Set {
		if !equalPtr(patch.Description.Value, prior.Description) {
			addEntry(domain.HistoryFieldDescription, prior.Description, patch.Description.Value)
		}
		updated.Description = patch.Description.Value
	}
	if patch.Status.Set {
		if patch.Status.Value == nil || !domain.ValidStatus(*patch.Status.Value) {
			return nil, util.NewValidationError("invalid status", nil)
		}
		status := *patch.Status.Value
		if status != prior.Status {
			addEntry(domain.HistoryFieldStatus, strPtr(string(prior.Status)), strPtr(string(status)))
		}
		updated.Status = status
	}
	if patch.Priority.Set {
		if patch.Priority.Value == nil || !domain.ValidPriority(*patch.Priority.Value) {
			return nil, util.NewValidationError("invalid priority", nil)
		}
		priority := *patch.Priority.Value
		if priority != prior.Priority {
			addEntry(domain.HistoryFieldPriority, strPtr(string(prior.Priority)), strPtr(string(priority)))
		}
		updated.Priority = priority
	}
	if patch.AssigneeID.Set {
		if patch.AssigneeID.Value != nil {
			if _, err := s.users.GetByIDInTenant(ctx, tenantID, *patch.AssigneeID.Value); err != nil {
				if util.IsNotFound(err) {
					return nil, util.NewValidationError("assignee not found", nil)
				}
				return nil, err
			}
		}
		if !equalPtr(patch.AssigneeID.Value, prior.AssigneeID) {
			addEntry(domain.HistoryFieldAssignee, prior.AssigneeID, patch.AssigneeID.Value)
		}
		updated.AssigneeID = patch.AssigneeID.Value
	}

	if err := s.tickets.UpdateWithHistory(ctx, &updated, entries); err != nil {
		return nil, err
	}

	result, err := s.tickets.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		changed := make([]string, 0, len(entries))
		for _, entry := range entries {
			changed = append(changed, entry.Field)
		}
		s.publish(ctx, events.Event{
			Type:     events.EventTicketUpdated,
			TenantID: tenantID,
			TicketID: id,
			ActorID:  actorID,
			Payload:  events.TicketUpdatedPayload{ChangedFields: changed},
		})
	}
	return result, nil
}

// ListComments returns a ticket's comments, oldest first.
func (s *TicketService) ListComments(ctx context.Context, tenantID, ticketID string) ([]domain.Comment, error) {
	if _, err := s.tickets.GetByID(ctx, tenantID, ticketID); err != nil {
		return nil, err
	}
	return s.comments.ListByTicket(ctx, ticketID)
}

// AddComment appends a comment to a ticket.
func (s *TicketService) AddComment(ctx context.Context, tenantID, actorID, ticketID, body string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, util.NewValidationError("text is required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, tenantID, ticketID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{TicketID: ticketID, Body: strings.TrimSpace(body)}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TenantID: tenantID,
		TicketID: ticketID,
		ActorID:  actorID,
		Payload: events.TicketCommentedPayload{
			CommentID:   comment.ID,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// ListHistory returns a ticket's audit trail, oldest first, with assignee ids
// resolved to display labels.
func (s *TicketService) ListHistory(ctx context.Context, tenantID, ticketID string) ([]domain.HistoryEntry, error) {
	if _, err := s.tickets.GetByID(ctx, tenantID, ticketID); err != nil {
		return nil, err
	}
	return s.history.ListResolved(ctx, ticketID)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func strPtr(s string) *string {
	return &s
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
