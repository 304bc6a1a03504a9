package query

import "strings"

// Statement is a mutable Builder that collects WHERE clauses and their
// arguments for one dialect. It is not safe for concurrent use.
type Statement struct {
	dialect Dialect
	clauses []string
	names   []string
	args    []any
}

// Compile-time check that Statement implements Builder.
var _ Builder = (*Statement)(nil)

// NewStatement returns an empty statement for d.
func NewStatement(d Dialect) *Statement {
	return &Statement{dialect: d}
}

// Dialect returns the statement's dialect.
func (s *Statement) Dialect() Dialect {
	return s.dialect
}

// Bind records value under name and returns its placeholder.
func (s *Statement) Bind(name string, value any) string {
	s.names = append(s.names, name)
	s.args = append(s.args, s.dialect.Arg(name, value))
	return s.dialect.Placeholder(name, len(s.args))
}

// Where appends an AND-ed clause.
func (s *Statement) Where(clause string) {
	s.clauses = append(s.clauses, clause)
}

// Clauses returns the appended clauses in order.
func (s *Statement) Clauses() []string {
	return s.clauses
}

// ParamNames returns the bound names in binding order.
func (s *Statement) ParamNames() []string {
	return s.names
}

// Args returns the bound arguments, ready to pass to database/sql.
func (s *Statement) Args() []any {
	return s.args
}

// WhereSQL returns " WHERE a AND b", or "" when there are no clauses.
func (s *Statement) WhereSQL() string {
	if len(s.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(s.clauses, " AND ")
}
