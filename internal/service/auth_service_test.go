package service_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/itsm-service/internal/config"
	"github.com/spec-kit/itsm-service/internal/repository/memory"
	"github.com/spec-kit/itsm-service/internal/service"
	"github.com/spec-kit/itsm-service/pkg/util"
)

func newAuthService(store *memory.Store) *service.AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:           "test-secret",
			AccessTokenTTLHours: 1,
			BcryptCost:          bcrypt.MinCost,
		},
	}
	return service.NewAuthService(cfg, store.Users())
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions tenant and first member together", func(t *testing.T) {
		store := memory.NewStore()
		svc := newAuthService(store)

		name := "Ada"
		tenant, user, err := svc.Signup(ctx, "Acme", "ada@acme.test", &name, "hunter22")
		gt.NoError(t, err).Required()
		gt.Value(t, tenant.Name).Equal("Acme")
		gt.Value(t, user.TenantID).Equal(tenant.ID)
		gt.Value(t, user.Email).Equal("ada@acme.test")
		// hash stored, never the raw password
		gt.Value(t, user.PasswordHash).NotEqual("hunter22")
	})

	t.Run("requires an organization name", func(t *testing.T) {
		store := memory.NewStore()
		svc := newAuthService(store)

		_, _, err := svc.Signup(ctx, "  ", "ada@acme.test", nil, "hunter22")
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).Message).Equal("organizationName is required")
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		store := memory.NewStore()
		svc := newAuthService(store)

		_, _, err := svc.Signup(ctx, "Acme", "ada@acme.test", nil, "short")
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(400)
	})

	t.Run("duplicate email conflicts, even across organizations", func(t *testing.T) {
		store := memory.NewStore()
		svc := newAuthService(store)

		_, _, err := svc.Signup(ctx, "Acme", "ada@acme.test", nil, "hunter22")
		gt.NoError(t, err).Required()

		_, _, err = svc.Signup(ctx, "Globex", "ada@acme.test", nil, "hunter22")
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(409)
	})
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newAuthService(store)

	tenant, _, err := svc.Signup(ctx, "Acme", "ada@acme.test", nil, "hunter22")
	gt.NoError(t, err).Required()

	member, err := svc.AddMember(ctx, tenant.ID, "bob@acme.test", nil, "hunter22")
	gt.NoError(t, err).Required()
	gt.Value(t, member.TenantID).Equal(tenant.ID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newAuthService(store)

	_, created, err := svc.Signup(ctx, "Acme", "ada@acme.test", nil, "hunter22")
	gt.NoError(t, err).Required()

	t.Run("issues a parseable token", func(t *testing.T) {
		user, token, expiresAt, err := svc.Login(ctx, "ada@acme.test", "hunter22")
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal(created.ID)
		gt.Value(t, token).NotEqual("")
		gt.Bool(t, expiresAt.IsZero()).False()

		claims, err := svc.TokenManager().ParseToken(token)
		gt.NoError(t, err).Required()
		gt.Value(t, claims.Subject).Equal(created.ID)
		gt.Value(t, claims.Email).Equal("ada@acme.test")
	})

	t.Run("wrong password yields the generic unauthorized message", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "ada@acme.test", "wrong-password")
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).Message).Equal("invalid credentials")
	})

	t.Run("unknown email yields the same message", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody@acme.test", "hunter22")
		gt.Error(t, err)
		gt.Value(t, util.ToDomainError(err).Message).Equal("invalid credentials")
		gt.Value(t, util.ToDomainError(err).HTTPStatus).Equal(401)
	})
}
