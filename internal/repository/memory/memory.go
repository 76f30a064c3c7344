// Package memory provides in-memory implementations of the repository
// interfaces so services can be tested without Postgres. Misses return
// pgx.ErrNoRows to match the Postgres-backed implementations.
package memory

import (
	"sync"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/internal/repository"
)

// Store bundles all in-memory repositories over one shared state.
type Store struct {
	mu         sync.RWMutex
	tenants    map[string]*domain.Tenant
	users      map[string]*domain.User
	categories map[string]*domain.Category
	tickets    map[string]*domain.Ticket
	comments   map[string][]domain.Comment
	history    map[string][]domain.HistoryEntry

	// insertion order for deterministic listings
	categoryOrder []string
	ticketOrder   []string
	userOrder     []string
}

// NewStore initializes empty state.
func NewStore() *Store {
	return &Store{
		tenants:    make(map[string]*domain.Tenant),
		users:      make(map[string]*domain.User),
		categories: make(map[string]*domain.Category),
		tickets:    make(map[string]*domain.Ticket),
		comments:   make(map[string][]domain.Comment),
		history:    make(map[string][]domain.HistoryEntry),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepository{store: s} }

// Categories returns the category repository view of the store.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepository{store: s} }

// Tickets returns the ticket repository view of the store.
func (s *Store) Tickets() repository.TicketRepository { return &ticketRepository{store: s} }

// Comments returns the comment repository view of the store.
func (s *Store) Comments() repository.CommentRepository { return &commentRepository{store: s} }

// History returns the history repository view of the store.
func (s *Store) History() repository.HistoryRepository { return &historyRepository{store: s} }

func copyUser(u *domain.User) *domain.User {
	clone := *u
	if u.Name != nil {
		name := *u.Name
		clone.Name = &name
	}
	return &clone
}

func copyCategory(c *domain.Category) *domain.Category {
	clone := *c
	if c.Description != nil {
		desc := *c.Description
		clone.Description = &desc
	}
	if c.ParentID != nil {
		parent := *c.ParentID
		clone.ParentID = &parent
	}
	return &clone
}

func copyTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	if t.Description != nil {
		desc := *t.Description
		clone.Description = &desc
	}
	if t.AssigneeID != nil {
		assignee := *t.AssigneeID
		clone.AssigneeID = &assignee
	}
	clone.Category = nil
	clone.Assignee = nil
	return &clone
}
