package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Any status may move
// to any other status; DONE tickets may be reopened.
type TicketStatus string

const (
	TicketStatusTodo       TicketStatus = "TODO"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusDone       TicketStatus = "DONE"
)

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusTodo, TicketStatusInProgress, TicketStatusDone:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// ValidPriority reports whether p is a known ticket priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. CategoryID always resolves
// within the ticket's tenant.
type Ticket struct {
	ID          string
	Title       string
	Description *string
	Status      TicketStatus
	Priority    TicketPriority
	CategoryID  string
	AssigneeID  *string
	TenantID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Eager-loaded associations, populated by list/detail queries.
	Category *Category
	Assignee *User
}
