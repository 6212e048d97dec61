package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// Any constraint names given must appear in the violated constraint for the
// match to hold; with none given, any unique violation matches. The sqlite
// driver used in tests reports violations by message only, so the check
// falls back to message text when no driver error is present.
func IsUniqueViolation(err error, constraints ...string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation && constraintMatches(pgxErr.ConstraintName, constraints)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && constraintMatches(pqErr.Constraint, constraints)
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraintMatches(msg, constraints)
}

func constraintMatches(violated string, constraints []string) bool {
	for _, name := range constraints {
		if name == "" {
			continue
		}
		if !strings.Contains(violated, name) {
			return false
		}
	}
	return true
}
