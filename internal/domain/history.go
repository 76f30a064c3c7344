package domain

import "time"

// History field names, one per tracked ticket attribute.
const (
	HistoryFieldTitle       = "title"
	HistoryFieldDescription = "description"
	HistoryFieldStatus      = "status"
	HistoryFieldPriority    = "priority"
	HistoryFieldAssignee    = "assignee"
)

// HistoryEntry is an immutable record of one field's before/after value on a
// ticket. Assignee entries store raw user ids; display labels are resolved at
// read time.
type HistoryEntry struct {
	ID        string
	TicketID  string
	UserID    string
	Field     string
	OldValue  *string
	NewValue  *string
	CreatedAt time.Time
}
