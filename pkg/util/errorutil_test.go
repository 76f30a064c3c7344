package util_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/m-mizutani/gt"

	"github.com/spec-kit/itsm-service/pkg/util"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		gt.Value(t, util.ToDomainError(nil)).Nil()
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		err := util.NewValidationError("bad input", nil)
		mapped := util.ToDomainError(err)
		gt.Value(t, mapped.Code).Equal("VALIDATION_FAILED")
		gt.Value(t, mapped.HTTPStatus).Equal(400)
		gt.Value(t, mapped.Message).Equal("bad input")
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		mapped := util.ToDomainError(pgx.ErrNoRows)
		gt.Value(t, mapped.HTTPStatus).Equal(404)
		gt.Value(t, mapped.Code).Equal("NOT_FOUND")
	})

	t.Run("wrapped no rows still maps", func(t *testing.T) {
		mapped := util.ToDomainError(fmt.Errorf("load ticket: %w", pgx.ErrNoRows))
		gt.Value(t, mapped.HTTPStatus).Equal(404)
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		mapped := util.ToDomainError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
		gt.Value(t, mapped.HTTPStatus).Equal(409)
		gt.Value(t, mapped.Code).Equal("CONFLICT")
	})

	t.Run("wrapped unique violation still maps", func(t *testing.T) {
		mapped := util.ToDomainError(fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"}))
		gt.Value(t, mapped.HTTPStatus).Equal(409)
	})

	t.Run("malformed id cast maps to not found", func(t *testing.T) {
		mapped := util.ToDomainError(&pgconn.PgError{Code: "22P02"})
		gt.Value(t, mapped.HTTPStatus).Equal(404)
		gt.Value(t, mapped.Code).Equal("NOT_FOUND")
	})

	t.Run("unknown errors become internal", func(t *testing.T) {
		mapped := util.ToDomainError(errors.New("boom"))
		gt.Value(t, mapped.HTTPStatus).Equal(500)
		gt.Value(t, mapped.Message).Equal("internal server error")
	})
}

func TestIsNotFound(t *testing.T) {
	gt.Bool(t, util.IsNotFound(pgx.ErrNoRows)).True()
	gt.Bool(t, util.IsNotFound(&pgconn.PgError{Code: "22P02"})).True()
	gt.Bool(t, util.IsNotFound(util.NewNotFound("ticket", nil))).True()
	gt.Bool(t, util.IsNotFound(util.NewValidationError("nope", nil))).False()
	gt.Bool(t, util.IsNotFound(errors.New("boom"))).False()
}
