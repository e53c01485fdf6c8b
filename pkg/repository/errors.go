package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgDuplicateKeyCode = "23505"
	pgForeignKeyCode   = "23503"
)

// MapError translates database errors to domain errors.
// It maps sql.ErrNoRows and PostgreSQL foreign key violations (23503) to
// notFoundErr, and unique violations (23505) to duplicateErr.
// Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDuplicateKeyCode:
			return duplicateErr
		case pgForeignKeyCode:
			return notFoundErr
		}
	}

	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgDuplicateKeyCode
}
