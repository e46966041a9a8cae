package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Constraint classes recognised across drivers.
var (
	ErrUniqueViolation     = errors.New("database: unique violation")
	ErrForeignKeyViolation = errors.New("database: foreign key violation")
)

// PostgreSQL SQLSTATE codes
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// ConstraintError wraps a driver error with the constraint class it violated.
type ConstraintError struct {
	Class      error
	Constraint string
	Cause      error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return e.Class.Error() + " (" + e.Constraint + "): " + e.Cause.Error()
	}
	return e.Class.Error() + ": " + e.Cause.Error()
}

func (e *ConstraintError) Is(target error) bool { return target == e.Class }
func (e *ConstraintError) Unwrap() error        { return e.Cause }

// Classify translates driver constraint errors into a *ConstraintError.
// Errors that are not constraint violations are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return byCode(string(pqErr.Code), pqErr.Constraint, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return byCode(pgErr.Code, pgErr.ConstraintName, err)
	}

	// mattn/go-sqlite3 is only linked into tests; match on its messages.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &ConstraintError{Class: ErrUniqueViolation, Constraint: afterColon(msg), Cause: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &ConstraintError{Class: ErrForeignKeyViolation, Cause: err}
	}
	return err
}

func byCode(code, constraint string, err error) error {
	switch code {
	case codeUniqueViolation:
		return &ConstraintError{Class: ErrUniqueViolation, Constraint: constraint, Cause: err}
	case codeForeignKeyViolation:
		return &ConstraintError{Class: ErrForeignKeyViolation, Constraint: constraint, Cause: err}
	}
	return err
}

// afterColon extracts "users.name" from "UNIQUE constraint failed: users.name".
func afterColon(msg string) string {
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return ""
}

func IsUniqueViolation(err error) bool     { return errors.Is(Classify(err), ErrUniqueViolation) }
func IsForeignKeyViolation(err error) bool { return errors.Is(Classify(err), ErrForeignKeyViolation) }
