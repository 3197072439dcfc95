package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/authsys-server/internal/model"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrCheckViolation      = "23514"
)

// mapError translates constraint violations into model errors and wraps the rest.
func mapError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return fmt.Errorf("failed to %s: %w", op, model.ErrConflict)
		case pgErrForeignKeyViolation:
			return fmt.Errorf("failed to %s: %w: referenced row does not exist", op, model.ErrInvalidInput)
		case pgErrCheckViolation:
			return fmt.Errorf("failed to %s: %w: %s", op, model.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
