package helper

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	PGUndefinedTable  = "42P01"
	PGUniqueViolation = "23505"
)

// PGCode extracts the SQLSTATE from pgx or lib/pq errors ("" when neither).
func PGCode(err error) string {
	if err == nil {
		return ""
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUndefinedTable also matches the message text, which is all SQLite and some
// PostgREST proxies give back.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	if PGCode(err) == PGUndefinedTable {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") ||
		(strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"))
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if PGCode(err) == PGUniqueViolation {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
