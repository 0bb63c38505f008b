package catalog

import (
	"fmt"
	"sort"
)

// tableNode groups a table's columns and constraints. Adjacency lives here
// so record emission and relationship resolution never re-query the engine.
type tableNode struct {
	ref         TableRef
	columns     []*Column
	constraints []*Constraint
}

// Graph is the in-memory metadata graph of one extraction pass: tables and
// columns as nodes, constraints as typed edges. It is built once per pass
// and is read-only afterwards.
type Graph struct {
	tables      map[TableRef]*tableNode
	constraints map[string]*Constraint

	// targets maps "constraint/column" to the resolved referenced column.
	// A foreign-key column absent from this map has a dangling reference.
	targets map[string]map[string]ColumnRef

	ordered []TableRef
	sorted  bool
}

// NewGraph creates an empty metadata graph.
func NewGraph() *Graph {
	return &Graph{
		tables:      make(map[TableRef]*tableNode),
		constraints: make(map[string]*Constraint),
		targets:     make(map[string]map[string]ColumnRef),
	}
}

// AddColumn adds a column to the graph, creating its table node if needed.
func (g *Graph) AddColumn(col *Column) {
	node := g.node(col.Table)
	node.columns = append(node.columns, col)
	g.sorted = false
}

// AddConstraint adds a constraint to the graph and attaches it to its table.
func (g *Graph) AddConstraint(c *Constraint) {
	g.constraints[c.Name] = c
	node := g.node(c.Table)
	node.constraints = append(node.constraints, c)
}

func (g *Graph) node(ref TableRef) *tableNode {
	node, ok := g.tables[ref]
	if !ok {
		node = &tableNode{ref: ref}
		g.tables[ref] = node
		g.ordered = append(g.ordered, ref)
	}
	return node
}

// TableCount returns the number of tables in the graph.
func (g *Graph) TableCount() int {
	return len(g.tables)
}

// Constraint returns a constraint by name.
func (g *Graph) Constraint(name string) (*Constraint, bool) {
	c, ok := g.constraints[name]
	return c, ok
}

// ResolveTargets pairs every foreign-key column with the column it
// references, matching strictly by position within the two constraints.
// A foreign key whose referenced constraint is missing stays unresolved
// (dangling); a column-count mismatch between the two sides is a
// SchemaIntegrityError because positional pairing would be meaningless.
func (g *Graph) ResolveTargets() error {
	for _, c := range g.constraints {
		if c.Kind != ForeignKey {
			continue
		}

		ref, ok := g.constraints[c.ReferencedConstraint]
		if !ok {
			// Dangling reference: surface the columns with no target
			// rather than failing the whole extraction.
			continue
		}

		if len(c.Columns) != len(ref.Columns) {
			return &SchemaIntegrityError{
				Constraint: c.Name,
				Table:      c.Table,
				Detail: fmt.Sprintf("foreign key has %d column(s) but referenced constraint %s has %d",
					len(c.Columns), ref.Name, len(ref.Columns)),
			}
		}

		pairs := make(map[string]ColumnRef, len(c.Columns))
		for i, colName := range c.Columns {
			pairs[colName] = ColumnRef{
				Schema: ref.Table.Schema,
				Table:  ref.Table.Name,
				Column: ref.Columns[i],
			}
		}
		g.targets[c.Name] = pairs
	}
	return nil
}

// Relationships returns the derived table-to-table edges for every resolved
// foreign key, ordered by constraint name.
func (g *Graph) Relationships() []Relationship {
	names := make([]string, 0, len(g.targets))
	for name := range g.targets {
		names = append(names, name)
	}
	sort.Strings(names)

	rels := make([]Relationship, 0, len(names))
	for _, name := range names {
		c := g.constraints[name]
		ref := g.constraints[c.ReferencedConstraint]
		pairs := make([][2]string, len(c.Columns))
		for i, col := range c.Columns {
			pairs[i] = [2]string{col, ref.Columns[i]}
		}
		rels = append(rels, Relationship{
			Constraint:  name,
			From:        c.Table,
			To:          ref.Table,
			ColumnPairs: pairs,
		})
	}
	return rels
}

// flags computes the PK/FK participation and target for one column.
func (g *Graph) flags(node *tableNode, colName string) (pk, fk bool, target *string) {
	for _, c := range node.constraints {
		if !containsColumn(c.Columns, colName) {
			continue
		}
		switch c.Kind {
		case PrimaryKey:
			pk = true
		case ForeignKey:
			fk = true
			if target == nil {
				if pairs, ok := g.targets[c.Name]; ok {
					if ref, ok := pairs[colName]; ok {
						s := ref.String()
						target = &s
					}
				}
			}
		}
	}
	return pk, fk, target
}

// sortTables fixes the emission order: (catalog, schema, table).
func (g *Graph) sortTables() {
	if g.sorted {
		return
	}
	sort.Slice(g.ordered, func(i, j int) bool {
		a, b := g.ordered[i], g.ordered[j]
		if a.Catalog != b.Catalog {
			return a.Catalog < b.Catalog
		}
		if a.Schema != b.Schema {
			return a.Schema < b.Schema
		}
		return a.Name < b.Name
	})
	for _, ref := range g.ordered {
		node := g.tables[ref]
		sort.Slice(node.columns, func(i, j int) bool {
			return node.columns[i].Position < node.columns[j].Position
		})
	}
	g.sorted = true
}

// Records returns a lazy cursor over the flat per-column records, ordered by
// (catalog, schema, table, ordinal position). ResolveTargets must have been
// called first for foreign-key targets to be populated.
func (g *Graph) Records() *RecordStream {
	g.sortTables()
	return &RecordStream{graph: g}
}

func containsColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
