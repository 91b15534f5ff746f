package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/taskhub/internal/domain/repository"
)

// uniqueConstraints maps unique-constraint names to the domain field they
// protect and the message surfaced to callers.
var uniqueConstraints = map[string]repository.ConflictError{
	"users_email_key":           {Field: "email", Message: "email already registered"},
	"projects_user_id_name_key": {Field: "name", Message: "project name already exists for this user"},
}

// conflictFrom translates a unique-constraint violation (SQLSTATE 23505)
// into a domain ConflictError naming the conflicting field.
// Returns nil for any other error.
func conflictFrom(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if ce, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
		return &ce
	}
	return &repository.ConflictError{Field: pgErr.ConstraintName}
}

// internalErr wraps an unexpected storage or hashing failure so callers
// see a stable ErrInternal kind without losing the cause.
func internalErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", repository.ErrInternal, op, err)
}
