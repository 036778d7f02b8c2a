package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes for integrity constraint violations (class 23)
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

var (
	ErrCheckViolation      = errors.New("check constraint violation")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrNotNullViolation    = errors.New("not null violation")
)

// ConstraintViolation is a statement rejected by one of the schema's constraints
type ConstraintViolation struct {
	Kind       error // one of the Err*Violation sentinels
	Constraint string
	Table      string
	Err        *pgconn.PgError
}

func (e *ConstraintViolation) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s on %s (%s): %s", e.Kind, e.Table, e.Constraint, e.Err.Message)
	}
	return fmt.Sprintf("%s on %s: %s", e.Kind, e.Table, e.Err.Message)
}

func (e *ConstraintViolation) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

// ClassifyError converts integrity constraint errors from Postgres into a
// *ConstraintViolation. Any other error is returned unchanged.
func ClassifyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	var kind error
	switch pgErr.Code {
	case codeCheckViolation:
		kind = ErrCheckViolation
	case codeUniqueViolation:
		kind = ErrUniqueViolation
	case codeForeignKeyViolation:
		kind = ErrForeignKeyViolation
	case codeNotNullViolation:
		kind = ErrNotNullViolation
	default:
		return err
	}

	return &ConstraintViolation{
		Kind:       kind,
		Constraint: pgErr.ConstraintName,
		Table:      pgErr.TableName,
		Err:        pgErr,
	}
}

// IsConstraintViolation reports whether err is any constraint violation
func IsConstraintViolation(err error) bool {
	var cv *ConstraintViolation
	return errors.As(err, &cv)
}
