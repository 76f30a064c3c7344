package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	CategoryID *string
}

// TicketRepository encapsulates ticket persistence. All lookups are scoped by
// tenant; an out-of-tenant id behaves as if the ticket does not exist.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error)
	List(ctx context.Context, tenantID string, filter TicketFilter) ([]domain.Ticket, error)
	// UpdateWithHistory writes the ticket row and its history entries in one
	// transaction; either both are durable or neither is.
	UpdateWithHistory(ctx context.Context, ticket *domain.Ticket, entries []domain.HistoryEntry) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, category_id, assignee_id, tenant_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CategoryID,
		ticket.AssigneeID,
		ticket.TenantID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

const ticketSelect = `
        SELECT t.id, t.title, t.description, t.status, t.priority, t.category_id, t.assignee_id,
               t.tenant_id, t.created_at, t.updated_at,
               c.name, c.description, c.parent_id, c.created_at, c.updated_at,
               u.id, u.email, u.name
        FROM tickets t
        JOIN categories c ON c.id = t.category_id
        LEFT JOIN users u ON u.id = t.assignee_id`

func (r *ticketRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
	const query = ticketSelect + ` WHERE t.id=$1 AND t.tenant_id=$2`
	row := r.pool.QueryRow(ctx, query, id, tenantID)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, tenantID string, filter TicketFilter) ([]domain.Ticket, error) {
	query := ticketSelect + ` WHERE t.tenant_id=$1`
	args := []any{tenantID}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += ` AND t.category_id=$2`
	}
	query += ` ORDER BY t.created_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) UpdateWithHistory(ctx context.Context, ticket *domain.Ticket, entries []domain.HistoryEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, assignee_id=$5, updated_at=NOW()
        WHERE id=$6 AND tenant_id=$7
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.ID,
		ticket.TenantID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return err
	}

	const historyQuery = `
        INSERT INTO ticket_history (ticket_id, user_id, field, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)`
	for _, entry := range entries {
		if _, err := tx.Exec(ctx, historyQuery,
			entry.TicketID,
			entry.UserID,
			entry.Field,
			entry.OldValue,
			entry.NewValue,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket        domain.Ticket
		category      domain.Category
		assigneeID    *string
		assigneeEmail *string
		assigneeName  *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CategoryID,
		&ticket.AssigneeID,
		&ticket.TenantID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&category.Name,
		&category.Description,
		&category.ParentID,
		&category.CreatedAt,
		&category.UpdatedAt,
		&assigneeID,
		&assigneeEmail,
		&assigneeName,
	); err != nil {
		return nil, err
	}

	category.ID = ticket.CategoryID
	category.TenantID = ticket.TenantID
	ticket.Category = &category

	if assigneeID != nil {
		var email string
		if assigneeEmail != nil {
			email = *assigneeEmail
		}
		ticket.Assignee = &domain.User{ID: *assigneeID, Email: email, Name: assigneeName, TenantID: ticket.TenantID}
	}
	return &ticket, nil
}
