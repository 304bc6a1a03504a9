package query

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Dialect holds what differs between SQL engines: placeholder syntax, how
// arguments are passed to database/sql, and case-insensitive matching.
type Dialect interface {
	// Name identifies the dialect ("postgres", "sqlite").
	Name() string
	// Placeholder returns the SQL text referencing the param bound at the
	// 1-based position under name.
	Placeholder(name string, position int) string
	// Arg wraps value for database/sql.
	Arg(name string, value any) any
	// Contains renders a case-insensitive LIKE of expr against the pattern
	// bound at placeholder. The pattern uses backslash as its escape.
	Contains(expr, placeholder string, negated bool) string
}

// Postgres renders $N placeholders and ILIKE. Use with lib/pq.
var Postgres Dialect = postgresDialect{}

// SQLite renders :name placeholders with sql.Named args and LOWER() LIKE.
// Use with mattn/go-sqlite3.
var SQLite Dialect = sqliteDialect{}

// DialectByName returns the dialect registered under name.
func DialectByName(name string) (Dialect, error) {
	switch name {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) Placeholder(_ string, position int) string {
	return "$" + strconv.Itoa(position)
}

func (postgresDialect) Arg(_ string, value any) any { return value }

func (postgresDialect) Contains(expr, placeholder string, negated bool) string {
	op := "ILIKE"
	if negated {
		op = "NOT ILIKE"
	}
	return fmt.Sprintf(`%s %s %s ESCAPE '\'`, expr, op, placeholder)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) Placeholder(name string, _ int) string {
	return ":" + name
}

// Arg stores times in UTC so that go-sqlite3's text encoding sorts correctly.
func (sqliteDialect) Arg(name string, value any) any {
	if t, ok := value.(time.Time); ok {
		value = t.UTC()
	}
	return sql.Named(name, value)
}

func (sqliteDialect) Contains(expr, placeholder string, negated bool) string {
	op := "LIKE"
	if negated {
		op = "NOT LIKE"
	}
	return fmt.Sprintf(`LOWER(%s) %s LOWER(%s) ESCAPE '\'`, expr, op, placeholder)
}
