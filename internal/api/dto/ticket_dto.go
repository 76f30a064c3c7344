package dto

import (
	"time"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/pkg/util"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                 `json:"title"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	CategoryID  string                 `json:"categoryId"`
	AssigneeID  *string                `json:"assigneeId"`
}

// UpdateTicketRequest is a partial patch over ticket fields.
type UpdateTicketRequest struct {
	Title       util.Optional[string]                `json:"title"`
	Description util.Optional[string]                `json:"description"`
	Status      util.Optional[domain.TicketStatus]   `json:"status"`
	Priority    util.Optional[domain.TicketPriority] `json:"priority"`
	AssigneeID  util.Optional[string]                `json:"assigneeId"`
}

// TicketResponse mirrors a ticket with eager-loaded associations.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description *string               `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CategoryID  string                `json:"categoryId"`
	AssigneeID  *string               `json:"assigneeId"`
	TenantID    string                `json:"tenantId"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
	Category    *CategoryResponse     `json:"category,omitempty"`
	Assignee    *UserResponse         `json:"assignee,omitempty"`
}

// TicketFromDomain converts a domain ticket.
func TicketFromDomain(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CategoryID:  t.CategoryID,
		AssigneeID:  t.AssigneeID,
		TenantID:    t.TenantID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Category != nil {
		category := CategoryFromDomain(t.Category)
		resp.Category = &category
	}
	if t.Assignee != nil {
		assignee := UserFromDomain(t.Assignee)
		resp.Assignee = &assignee
	}
	return resp
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// CommentResponse mirrors a ticket comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentFromDomain converts a domain comment.
func CommentFromDomain(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// HistoryEntryResponse mirrors one audit entry. For assignee entries the
// old/new values carry resolved display labels.
type HistoryEntryResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	UserID    string    `json:"userId"`
	Field     string    `json:"field"`
	OldValue  *string   `json:"oldValue"`
	NewValue  *string   `json:"newValue"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryFromDomain converts a domain history entry.
func HistoryFromDomain(h *domain.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:        h.ID,
		TicketID:  h.TicketID,
		UserID:    h.UserID,
		Field:     h.Field,
		OldValue:  h.OldValue,
		NewValue:  h.NewValue,
		CreatedAt: h.CreatedAt,
	}
}
