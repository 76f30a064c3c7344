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

func TestUserDelete(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memory.Store, *service.UserService, *domain.User) {
		t.Helper()
		store := memory.NewStore()
		tenant := &domain.Tenant{Name: "Acme"}
		caller := &domain.User{Email: "ops@acme.test", PasswordHash: "x"}
		gt.NoError(t, store.Users().CreateWithTenant(ctx, tenant, caller)).Required()
		return store, service.NewUserService(store.Users()), caller
	}

	t.Run("removes a fellow member", func(t *testing.T) {
		store, users, caller := setup(t)
		target := &domain.User{Email: "bob@acme.test", PasswordHash: "x", TenantID: caller.TenantID}
		gt.NoError(t, store.Users().Create(ctx, target)).Required()

		gt.NoError(t, users.Delete(ctx, caller, target.ID)).Required()

		_, err := store.Users().GetByID(ctx, target.ID)
		gt.Error(t, err)
	})

	t.Run("rejects self-removal", func(t *testing.T) {
		_, users, caller := setup(t)
		err := users.Delete(ctx, caller, caller.ID)
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).Message).Equal("cannot remove yourself")
	})

	t.Run("unknown target yields not found", func(t *testing.T) {
		_, users, caller := setup(t)
		err := users.Delete(ctx, caller, "missing")
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(404)
	})

	t.Run("member of another organization is forbidden", func(t *testing.T) {
		store, users, caller := setup(t)
		other := &domain.Tenant{Name: "Globex"}
		outsider := &domain.User{Email: "root@globex.test", PasswordHash: "x"}
		gt.NoError(t, store.Users().CreateWithTenant(ctx, other, outsider)).Required()

		err := users.Delete(ctx, caller, outsider.ID)
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(403)
	})
}

func TestUserList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tenant := &domain.Tenant{Name: "Acme"}
	first := &domain.User{Email: "ops@acme.test", PasswordHash: "x"}
	gt.NoError(t, store.Users().CreateWithTenant(ctx, tenant, first)).Required()

	other := &domain.Tenant{Name: "Globex"}
	outsider := &domain.User{Email: "root@globex.test", PasswordHash: "x"}
	gt.NoError(t, store.Users().CreateWithTenant(ctx, other, outsider)).Required()

	users := service.NewUserService(store.Users())
	members, err := users.List(ctx, tenant.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, members).Length(1)
	gt.Value(t, members[0].Email).Equal("ops@acme.test")
}
