package database

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect selects the database/sql driver. Queries are written once with
// $N placeholders and rebound for drivers that only accept "?".
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectPgx      Dialect = "pgx"
	DialectSQLite   Dialect = "sqlite"
)

var placeholderPattern = regexp.MustCompile(`\$\d+`)

// ParseDialect maps a configured driver name to a Dialect
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	case "pgx":
		return DialectPgx, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// DriverName is the name registered with database/sql
func (d Dialect) DriverName() string {
	return string(d)
}

// DefaultDSN is used when DATABASE_URL is empty
func (d Dialect) DefaultDSN() string {
	switch d {
	case DialectSQLite:
		return "file:cutoffs_database.db?mode=ro&_pragma=busy_timeout(5000)"
	default:
		return "postgres://localhost:5432/neet_cutoffs?sslmode=disable"
	}
}

// Rebind rewrites $N placeholders for the dialect. For SQLite every
// placeholder must appear once and in argument order.
func (d Dialect) Rebind(query string) string {
	if d != DialectSQLite {
		return query
	}
	return placeholderPattern.ReplaceAllString(query, "?")
}

// Placeholders returns "$start, $start+1, ..." for n parameters
func Placeholders(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}
