package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	// pgxmock and wrapped driver errors only carry the text
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, uniqueViolation) ||
		strings.Contains(errMsg, "duplicate key")
}
