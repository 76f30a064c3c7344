package domain

import "time"

// Comment is an append-only note on a ticket.
type Comment struct {
	ID        string
	TicketID  string
	Body      string
	CreatedAt time.Time
}
