package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolationPostgres(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}

	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected unique violation without constraint filter")
	}
	if !IsUniqueViolation(pgErr, "idx_users_email") {
		t.Fatal("expected unique violation with matching constraint")
	}
	if IsUniqueViolation(pgErr, "idx_other") {
		t.Fatal("unexpected match for different constraint")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violation must not match")
	}
}

func TestIsUniqueViolationWrapped(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	wrapped := fmt.Errorf("creating user: %w", pgErr)
	if !IsUniqueViolation(wrapped, "") {
		t.Fatal("expected detection through wrapping")
	}
}

func TestIsUniqueViolationSQLiteMessage(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: users.cognito_sub")
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected sqlite message to match")
	}
}

func TestIsUniqueViolationNil(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Fatal("expected record not found to match")
	}
	if !IsNotFound(fmt.Errorf("loading: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("expected wrapped record not found to match")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatal("unexpected match")
	}
}
