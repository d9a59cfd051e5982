// internal/repository/postgres/errors.go
package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = pq.ErrorCode("23505")

// isUniqueViolation reports whether err is a unique constraint violation.
// Callers translate it into a domain error (duplicate membership, duplicate
// email) instead of surfacing a raw store failure.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
