package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/MagnunAVF/clicklink/internal"
)

// SQLite does not report index names, only table.column pairs.
var sqliteColumns = map[string]string{
	"users.email":     internal.IndexUserEmail,
	"users.username":  internal.IndexUserUsername,
	"urls.short_code": internal.IndexURLShortCode,
}

// uniqueViolation extracts the violated constraint from driver errors.
// Postgres reports the index name directly.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			return pgErr.ConstraintName, true
		}
		return "", false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return sqliteConstraint(sqliteErr.Error()), true
		}
	}
	return "", false
}

// sqliteConstraint maps "UNIQUE constraint failed: users.email" onto the
// index name. Unknown columns are returned as reported.
func sqliteConstraint(msg string) string {
	_, cols, ok := strings.Cut(msg, "constraint failed: ")
	if !ok {
		return msg
	}
	first, _, _ := strings.Cut(cols, ",")
	first = strings.TrimSpace(first)
	if name, ok := sqliteColumns[first]; ok {
		return name
	}
	return first
}
