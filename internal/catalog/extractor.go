package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// Querier is the slice of the adapter contract the extractor needs:
// parameterized queries plus the dialect for placeholder rendering.
type Querier interface {
	QueryArgs(ctx context.Context, sql string, args ...any) (*adapter.Rows, error)
	Dialect() *adapter.Dialect
}

// Extractor introspects the information-schema views of a relational engine
// and builds the metadata graph for a set of catalogs and schemas.
//
// Extraction is read-only and safely re-runnable; it assumes the target
// schema is stable for the duration of one pass.
type Extractor struct {
	db     Querier
	logger *slog.Logger
}

// NewExtractor creates an extractor over the given connection.
// If logger is nil, a discard logger is used.
func NewExtractor(db Querier, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{db: db, logger: logger}
}

// Extract introspects the given catalogs and schemas and returns the
// resolved metadata graph. Constraint targets are resolved before returning,
// so Records() and Relationships() are immediately usable.
func (e *Extractor) Extract(ctx context.Context, catalogs, schemas []string) (*Graph, error) {
	if len(catalogs) == 0 || len(schemas) == 0 {
		return nil, fmt.Errorf("at least one catalog and one schema are required")
	}

	e.logger.Debug("starting catalog extraction", "catalogs", catalogs, "schemas", schemas)

	graph := NewGraph()

	if err := e.loadColumns(ctx, graph, catalogs, schemas); err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	if err := e.loadConstraints(ctx, graph, catalogs, schemas); err != nil {
		return nil, fmt.Errorf("failed to load constraints: %w", err)
	}
	if err := graph.ResolveTargets(); err != nil {
		return nil, err
	}

	e.logger.Debug("catalog extraction complete",
		"tables", graph.TableCount(), "relationships", len(graph.Relationships()))

	return graph, nil
}

// inLists renders the two IN (...) placeholder lists for catalogs and
// schemas and returns the combined argument slice.
func (e *Extractor) inLists(catalogs, schemas []string) (catList, schemaList string, args []any) {
	d := e.db.Dialect()
	catList = d.Placeholders(1, len(catalogs))
	schemaList = d.Placeholders(1+len(catalogs), len(schemas))
	args = make([]any, 0, len(catalogs)+len(schemas))
	for _, c := range catalogs {
		args = append(args, c)
	}
	for _, s := range schemas {
		args = append(args, s)
	}
	return catList, schemaList, args
}

func (e *Extractor) loadColumns(ctx context.Context, graph *Graph, catalogs, schemas []string) error {
	catList, schemaList, args := e.inLists(catalogs, schemas)

	//nolint:gosec // Only dialect placeholders are interpolated
	query := fmt.Sprintf(`
		SELECT
			table_catalog,
			table_schema,
			table_name,
			column_name,
			data_type,
			COALESCE(character_maximum_length, 0),
			ordinal_position,
			is_nullable
		FROM information_schema.columns
		WHERE table_catalog IN (%s)
		  AND table_schema IN (%s)
		ORDER BY table_catalog, table_schema, table_name, ordinal_position
	`, catList, schemaList)

	rows, err := e.db.QueryArgs(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(
			&col.Table.Catalog, &col.Table.Schema, &col.Table.Name,
			&col.Name, &col.DataType, &col.CharMaxLength, &col.Position, &nullable,
		); err != nil {
			return fmt.Errorf("failed to scan column row: %w", err)
		}
		col.Nullable = nullable == "YES"
		graph.AddColumn(&col)
	}
	return rows.Err()
}

func (e *Extractor) loadConstraints(ctx context.Context, graph *Graph, catalogs, schemas []string) error {
	kinds, err := e.loadConstraintKinds(ctx, catalogs, schemas)
	if err != nil {
		return err
	}
	refs, err := e.loadReferentialConstraints(ctx, catalogs, schemas)
	if err != nil {
		return err
	}
	return e.loadKeyColumns(ctx, graph, kinds, refs, catalogs, schemas)
}

// constraintHeader carries a constraint's kind and owning table before its
// column list is attached.
type constraintHeader struct {
	kind  ConstraintKind
	table TableRef
}

func (e *Extractor) loadConstraintKinds(ctx context.Context, catalogs, schemas []string) (map[string]constraintHeader, error) {
	catList, schemaList, args := e.inLists(catalogs, schemas)

	//nolint:gosec // Only dialect placeholders are interpolated
	query := fmt.Sprintf(`
		SELECT
			constraint_name,
			constraint_type,
			table_catalog,
			table_schema,
			table_name
		FROM information_schema.table_constraints
		WHERE table_catalog IN (%s)
		  AND table_schema IN (%s)
		  AND constraint_type IN ('PRIMARY KEY', 'FOREIGN KEY', 'UNIQUE')
	`, catList, schemaList)

	rows, err := e.db.QueryArgs(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	kinds := make(map[string]constraintHeader)
	for rows.Next() {
		var name, kind string
		var table TableRef
		if err := rows.Scan(&name, &kind, &table.Catalog, &table.Schema, &table.Name); err != nil {
			return nil, fmt.Errorf("failed to scan constraint row: %w", err)
		}
		kinds[name] = constraintHeader{kind: ConstraintKind(kind), table: table}
	}
	return kinds, rows.Err()
}

func (e *Extractor) loadReferentialConstraints(ctx context.Context, catalogs, schemas []string) (map[string]string, error) {
	catList, schemaList, args := e.inLists(catalogs, schemas)

	//nolint:gosec // Only dialect placeholders are interpolated
	query := fmt.Sprintf(`
		SELECT
			constraint_name,
			unique_constraint_name
		FROM information_schema.referential_constraints
		WHERE constraint_catalog IN (%s)
		  AND constraint_schema IN (%s)
	`, catList, schemaList)

	rows, err := e.db.QueryArgs(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	refs := make(map[string]string)
	for rows.Next() {
		var name string
		var unique *string
		if err := rows.Scan(&name, &unique); err != nil {
			return nil, fmt.Errorf("failed to scan referential constraint row: %w", err)
		}
		if unique != nil {
			refs[name] = *unique
		}
	}
	return refs, rows.Err()
}

// loadKeyColumns attaches the ordered column lists from key_column_usage to
// the constraints discovered so far, then registers them on the graph.
// Ordering by ordinal position within the constraint is what makes
// positional FK-to-key pairing correct for composite keys.
func (e *Extractor) loadKeyColumns(ctx context.Context, graph *Graph, kinds map[string]constraintHeader, refs map[string]string, catalogs, schemas []string) error {
	catList, schemaList, args := e.inLists(catalogs, schemas)

	//nolint:gosec // Only dialect placeholders are interpolated
	query := fmt.Sprintf(`
		SELECT
			constraint_name,
			column_name,
			ordinal_position
		FROM information_schema.key_column_usage
		WHERE table_catalog IN (%s)
		  AND table_schema IN (%s)
		ORDER BY constraint_name, ordinal_position
	`, catList, schemaList)

	rows, err := e.db.QueryArgs(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	type keyColumn struct {
		name     string
		position int
	}
	columnsByConstraint := make(map[string][]keyColumn)
	var order []string
	for rows.Next() {
		var name, column string
		var position int
		if err := rows.Scan(&name, &column, &position); err != nil {
			return fmt.Errorf("failed to scan key column row: %w", err)
		}

		if _, ok := kinds[name]; !ok {
			// Key column for a constraint kind we do not track (e.g. CHECK)
			continue
		}

		if _, ok := columnsByConstraint[name]; !ok {
			order = append(order, name)
		}
		columnsByConstraint[name] = append(columnsByConstraint[name], keyColumn{name: column, position: position})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range order {
		cols := columnsByConstraint[name]
		// Pairing is positional, so sort by the reported ordinal position
		// instead of trusting row arrival order.
		sort.Slice(cols, func(i, j int) bool { return cols[i].position < cols[j].position })

		header := kinds[name]
		c := &Constraint{
			Name:                 name,
			Kind:                 header.kind,
			Table:                header.table,
			ReferencedConstraint: refs[name],
		}
		for _, col := range cols {
			c.Columns = append(c.Columns, col.name)
		}
		graph.AddConstraint(c)
	}
	return nil
}
