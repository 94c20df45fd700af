package postgres

import (
	"errors"

	"tracking/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes that signal a transient conflict between transactions.
const (
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateSerializationFailure = "40001"
)

// IsContention reports whether err is a transient conflict worth retrying:
// a deadlock, a lock timeout, a serialization failure or a stale version.
// Both the pgx and the lib/pq driver errors are recognised.
func IsContention(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ports.ErrConcurrentModification) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isContentionCode(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return isContentionCode(string(pqErr.Code))
	}

	return false
}

func isContentionCode(code string) bool {
	switch code {
	case sqlStateDeadlockDetected, sqlStateLockNotAvailable, sqlStateSerializationFailure:
		return true
	default:
		return false
	}
}
