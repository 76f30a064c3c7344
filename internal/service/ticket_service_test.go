package service_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/internal/repository/memory"
	"github.com/spec-kit/itsm-service/internal/service"
	"github.com/spec-kit/itsm-service/pkg/util"
)

type ticketFixture struct {
	store    *memory.Store
	tickets  *service.TicketService
	tenant   *domain.Tenant
	actor    *domain.User
	category *domain.Category
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	tenant := &domain.Tenant{Name: "Acme"}
	actor := &domain.User{Email: "ops@acme.test", PasswordHash: "x"}
	gt.NoError(t, store.Users().CreateWithTenant(ctx, tenant, actor)).Required()

	category := &domain.Category{Name: "Bugs", TenantID: tenant.ID}
	gt.NoError(t, store.Categories().Create(ctx, category)).Required()

	history := service.NewHistoryService(store.History(), store.Users())
	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   store.Tickets(),
		CategoryRepo: store.Categories(),
		CommentRepo:  store.Comments(),
		UserRepo:     store.Users(),
		History:      history,
	})

	return &ticketFixture{
		store:    store,
		tickets:  tickets,
		tenant:   tenant,
		actor:    actor,
		category: category,
	}
}

func (f *ticketFixture) addMember(t *testing.T, email string, name *string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Name: name, PasswordHash: "x", TenantID: f.tenant.ID}
	gt.NoError(t, f.store.Users().Create(context.Background(), user)).Required()
	return user
}

func (f *ticketFixture) createTicket(t *testing.T, title string) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.Create(context.Background(), f.tenant.ID, f.actor.ID, service.TicketCreateInput{
		Title:      title,
		CategoryID: f.category.ID,
	})
	gt.NoError(t, err).Required()
	return ticket
}

func TestTicketCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to TODO and MEDIUM", func(t *testing.T) {
		f := newTicketFixture(t)
		ticket := f.createTicket(t, "Printer on fire")

		gt.Value(t, ticket.Status).Equal(domain.TicketStatusTodo)
		gt.Value(t, ticket.Priority).Equal(domain.TicketPriorityMedium)
		gt.Value(t, ticket.TenantID).Equal(f.tenant.ID)
		gt.Value(t, ticket.Category).NotNil()
		gt.Value(t, ticket.Category.ID).Equal(f.category.ID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		f := newTicketFixture(t)
		_, err := f.tickets.Create(ctx, f.tenant.ID, f.actor.ID, service.TicketCreateInput{
			Title:      "   ",
			CategoryID: f.category.ID,
		})
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(400)
	})

	t.Run("rejects category from another tenant", func(t *testing.T) {
		f := newTicketFixture(t)
		other := &domain.Tenant{Name: "Globex"}
		otherUser := &domain.User{Email: "root@globex.test", PasswordHash: "x"}
		gt.NoError(t, f.store.Users().CreateWithTenant(ctx, other, otherUser)).Required()
		foreign := &domain.Category{Name: "Foreign", TenantID: other.ID}
		gt.NoError(t, f.store.Categories().Create(ctx, foreign)).Required()

		_, err := f.tickets.Create(ctx, f.tenant.ID, f.actor.ID, service.TicketCreateInput{
			Title:      "Cross-tenant attempt",
			CategoryID: foreign.ID,
		})
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).Message).Equal("category not found")
	})

	t.Run("rejects unknown assignee", func(t *testing.T) {
		f := newTicketFixture(t)
		ghost := "00000000-0000-0000-0000-000000000000"
		_, err := f.tickets.Create(ctx, f.tenant.ID, f.actor.ID, service.TicketCreateInput{
			Title:      "Needs an owner",
			CategoryID: f.category.ID,
			AssigneeID: &ghost,
		})
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).Message).Equal("assignee not found")
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		f := newTicketFixture(t)
		bad := domain.TicketStatus("BLOCKED")
		_, err := f.tickets.Create(ctx, f.tenant.ID, f.actor.ID, service.TicketCreateInput{
			Title:      "Bad status",
			CategoryID: f.category.ID,
			Status:     &bad,
		})
		gt.Error(t, err)
	})
}

func TestTicketUpdateHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("status change writes exactly one entry", func(t *testing.T) {
		f := newTicketFixture(t)
		ticket := f.createTicket(t, "Flaky VPN")

		updated, err := f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			Status: util.Some(domain.TicketStatusDone),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(domain.TicketStatusDone)

		entries, err := f.tickets.ListHistory(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.Value(t, entries[0].Field).Equal(domain.HistoryFieldStatus)
		gt.Value(t, *entries[0].OldValue).Equal("TODO")
		gt.Value(t, *entries[0].NewValue).Equal("DONE")
		gt.Value(t, entries[0].UserID).Equal(f.actor.ID)
	})

	t.Run("one entry per changed field", func(t *testing.T) {
		f := newTicketFixture(t)
		ticket := f.createTicket(t, "Slow laptop")

		_, err := f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			Title:    util.Some("Very slow laptop"),
			Priority: util.Some(domain.TicketPriorityHigh),
		})
		gt.NoError(t, err).Required()

		entries, err := f.tickets.ListHistory(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2)

		fields := map[string]bool{}
		for _, e := range entries {
			fields[e.Field] = true
		}
		gt.Bool(t, fields[domain.HistoryFieldTitle]).True()
		gt.Bool(t, fields[domain.HistoryFieldPriority]).True()
	})

	t.Run("unchanged value writes no entry", func(t *testing.T) {
		f := newTicketFixture(t)
		ticket := f.createTicket(t, "Same status")

		_, err := f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			Status: util.Some(domain.TicketStatusTodo),
		})
		gt.NoError(t, err).Required()

		entries, err := f.tickets.ListHistory(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(0)
	})

	t.Run("empty patch touches nothing", func(t *testing.T) {
		f := newTicketFixture(t)
		ticket := f.createTicket(t, "Leave me alone")

		updated, err := f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.UpdatedAt).Equal(ticket.UpdatedAt)

		entries, err := f.tickets.ListHistory(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(0)
	})

	t.Run("clearing description via explicit null is recorded", func(t *testing.T) {
		f := newTicketFixture(t)
		desc := "It keeps rebooting"
		ticket, err := f.tickets.Create(ctx, f.tenant.ID, f.actor.ID, service.TicketCreateInput{
			Title:       "Reboot loop",
			Description: &desc,
			CategoryID:  f.category.ID,
		})
		gt.NoError(t, err).Required()

		_, err = f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			Description: util.Null[string](),
		})
		gt.NoError(t, err).Required()

		entries, err := f.tickets.ListHistory(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.Value(t, entries[0].Field).Equal(domain.HistoryFieldDescription)
		gt.Value(t, *entries[0].OldValue).Equal(desc)
		gt.Value(t, entries[0].NewValue).Nil()
	})

	t.Run("assignee entries resolve to display labels", func(t *testing.T) {
		f := newTicketFixture(t)
		name := "Dana Reyes"
		assignee := f.addMember(t, "dana@acme.test", &name)
		nameless := f.addMember(t, "no-name@acme.test", nil)
		ticket := f.createTicket(t, "Assign me")

		_, err := f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			AssigneeID: util.Some(assignee.ID),
		})
		gt.NoError(t, err).Required()
		_, err = f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			AssigneeID: util.Some(nameless.ID),
		})
		gt.NoError(t, err).Required()

		entries, err := f.tickets.ListHistory(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2)

		gt.Value(t, entries[0].OldValue).Nil()
		gt.Value(t, *entries[0].NewValue).Equal("Dana Reyes")
		// no name set, label falls back to email
		gt.Value(t, *entries[1].OldValue).Equal("Dana Reyes")
		gt.Value(t, *entries[1].NewValue).Equal("no-name@acme.test")
	})

	t.Run("entries survive removal of the acting user", func(t *testing.T) {
		f := newTicketFixture(t)
		editor := f.addMember(t, "editor@acme.test", nil)
		ticket := f.createTicket(t, "Audited change")

		_, err := f.tickets.Update(ctx, f.tenant.ID, editor.ID, ticket.ID, service.TicketPatch{
			Status: util.Some(domain.TicketStatusDone),
		})
		gt.NoError(t, err).Required()
		gt.NoError(t, f.store.Users().Delete(ctx, editor.ID)).Required()

		entries, err := f.tickets.ListHistory(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.Value(t, entries[0].UserID).Equal(editor.ID)
		gt.Value(t, *entries[0].NewValue).Equal("DONE")
	})

	t.Run("deleted assignee id passes through unresolved", func(t *testing.T) {
		f := newTicketFixture(t)
		assignee := f.addMember(t, "gone@acme.test", nil)
		ticket := f.createTicket(t, "Orphaned assignee")

		_, err := f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			AssigneeID: util.Some(assignee.ID),
		})
		gt.NoError(t, err).Required()
		gt.NoError(t, f.store.Users().Delete(ctx, assignee.ID)).Required()

		entries, err := f.tickets.ListHistory(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(1)
		gt.Value(t, *entries[0].NewValue).Equal(assignee.ID)
	})

	t.Run("assignee from another tenant is rejected", func(t *testing.T) {
		f := newTicketFixture(t)
		other := &domain.Tenant{Name: "Globex"}
		outsider := &domain.User{Email: "out@globex.test", PasswordHash: "x"}
		gt.NoError(t, f.store.Users().CreateWithTenant(ctx, other, outsider)).Required()
		ticket := f.createTicket(t, "No outsiders")

		_, err := f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			AssigneeID: util.Some(outsider.ID),
		})
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).Message).Equal("assignee not found")
	})

	t.Run("clearing the title is rejected", func(t *testing.T) {
		f := newTicketFixture(t)
		ticket := f.createTicket(t, "Keep the title")

		_, err := f.tickets.Update(ctx, f.tenant.ID, f.actor.ID, ticket.ID, service.TicketPatch{
			Title: util.Some("  "),
		})
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(400)
	})
}

func TestTicketTenantScoping(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t)
	ticket := f.createTicket(t, "Private to Acme")

	other := &domain.Tenant{Name: "Globex"}
	outsider := &domain.User{Email: "root@globex.test", PasswordHash: "x"}
	gt.NoError(t, f.store.Users().CreateWithTenant(ctx, other, outsider)).Required()

	_, err := f.tickets.Get(ctx, other.ID, ticket.ID)
	gt.Error(t, err)
	gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(404)

	_, err = f.tickets.Update(ctx, other.ID, outsider.ID, ticket.ID, service.TicketPatch{
		Status: util.Some(domain.TicketStatusDone),
	})
	gt.Error(t, err)
	gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(404)

	tickets, err := f.tickets.List(ctx, other.ID, nil)
	gt.NoError(t, err).Required()
	gt.Array(t, tickets).Length(0)
}

func TestTicketComments(t *testing.T) {
	ctx := context.Background()

	t.Run("append and list oldest first", func(t *testing.T) {
		f := newTicketFixture(t)
		ticket := f.createTicket(t, "Discussion")

		first, err := f.tickets.AddComment(ctx, f.tenant.ID, f.actor.ID, ticket.ID, "looking into it")
		gt.NoError(t, err).Required()
		_, err = f.tickets.AddComment(ctx, f.tenant.ID, f.actor.ID, ticket.ID, "fixed in staging")
		gt.NoError(t, err).Required()

		comments, err := f.tickets.ListComments(ctx, f.tenant.ID, ticket.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(2)
		gt.Value(t, comments[0].ID).Equal(first.ID)
		gt.Value(t, comments[0].Body).Equal("looking into it")
	})

	t.Run("rejects empty text", func(t *testing.T) {
		f := newTicketFixture(t)
		ticket := f.createTicket(t, "No empty notes")

		_, err := f.tickets.AddComment(ctx, f.tenant.ID, f.actor.ID, ticket.ID, "   ")
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(400)
	})

	t.Run("unknown ticket yields not found", func(t *testing.T) {
		f := newTicketFixture(t)
		_, err := f.tickets.AddComment(ctx, f.tenant.ID, f.actor.ID, "missing", "hello")
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(404)
	})
}
