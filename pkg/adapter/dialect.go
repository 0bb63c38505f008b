package adapter

import (
	"fmt"
	"strings"
)

// Dialect holds the static SQL dialect configuration an adapter exposes.
// The semantic layer only needs placeholder formatting, the default schema,
// and the year-shift expression; heavier dialect concerns (parsing, lineage)
// live with the agent, not here.
type Dialect struct {
	// Name is the dialect identifier (e.g., "duckdb", "postgres").
	Name string

	// DefaultSchema is the schema used when a table reference is unqualified.
	DefaultSchema string

	// Placeholder renders the i-th (1-based) query placeholder ("?" or "$1").
	Placeholder func(i int) string

	// ShiftYears renders an expression adding a fixed number of years to a
	// date-valued expression.
	ShiftYears func(expr string, years int) string

	// CurrentDate is the expression for the session's current date.
	CurrentDate string
}

// Placeholders renders n consecutive placeholders starting at first,
// joined by ", ". Used for IN (...) lists.
func (d *Dialect) Placeholders(first, n int) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, d.Placeholder(first+i))
	}
	return strings.Join(parts, ", ")
}

// ParseQualifiedName splits a table reference into schema and name,
// using the dialect's default schema when unqualified.
func ParseQualifiedName(table string, d *Dialect) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return d.DefaultSchema, table
}

// QuestionPlaceholder renders "?" placeholders regardless of position.
func QuestionPlaceholder(_ int) string { return "?" }

// DollarPlaceholder renders positional "$N" placeholders.
func DollarPlaceholder(i int) string { return fmt.Sprintf("$%d", i) }
