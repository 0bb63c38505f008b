// Package catalog introspects relational catalogs through their
// information-schema views and produces a flat per-column record stream plus
// an in-memory metadata graph of tables, columns, and constraints.
package catalog

import (
	"fmt"
	"strings"
)

// TableRef identifies a table within a catalog.
type TableRef struct {
	Catalog string
	Schema  string
	Name    string
}

func (t TableRef) String() string {
	return fmt.Sprintf("%s.%s.%s", t.Catalog, t.Schema, t.Name)
}

// ColumnRef fully qualifies a column as schema.table.column. This is the
// rendering used for foreign-key targets.
type ColumnRef struct {
	Schema string
	Table  string
	Column string
}

func (c ColumnRef) String() string {
	return fmt.Sprintf("%s.%s.%s", c.Schema, c.Table, c.Column)
}

// Column holds the introspected attributes of one table column.
type Column struct {
	Table    TableRef
	Name     string
	DataType string
	// CharMaxLength is > 0 only for character types declaring a maximum length.
	CharMaxLength int64
	Position      int
	Nullable      bool
}

// RenderedType returns the uppercased, length-parameterized type name,
// e.g. "VARCHAR(50)" or "INTEGER".
func (c *Column) RenderedType() string {
	t := strings.ToUpper(c.DataType)
	if c.CharMaxLength > 0 {
		return fmt.Sprintf("%s(%d)", t, c.CharMaxLength)
	}
	return t
}

// ConstraintKind classifies a constraint.
type ConstraintKind string

const (
	PrimaryKey ConstraintKind = "PRIMARY KEY"
	ForeignKey ConstraintKind = "FOREIGN KEY"
	Unique     ConstraintKind = "UNIQUE"
)

// Constraint holds one table constraint with its columns in declaration
// order. Column order matters: for a composite foreign key, column i pairs
// with column i of the referenced constraint.
type Constraint struct {
	Name    string
	Kind    ConstraintKind
	Table   TableRef
	Columns []string

	// ReferencedConstraint is the name of the unique or primary-key
	// constraint a foreign key points to. Empty for non-FK constraints.
	ReferencedConstraint string
}

// Relationship is a derived, directed edge between two tables via a foreign
// key, with column pairs matched by position.
type Relationship struct {
	Constraint string
	From       TableRef
	To         TableRef
	// ColumnPairs[i] maps FK column i to its referenced column.
	ColumnPairs [][2]string
}

// Record is one flat catalog record, one per column, the shape consumed by
// downstream retrieval components.
type Record struct {
	DBName     string
	SchemaName string
	TableName  string
	ColumnName string
	ColumnType string
	PrimaryKey bool
	ForeignKey bool
	// Target is the fully qualified referenced column, nil when the column
	// is not a foreign key or the reference is dangling.
	Target *string
}
