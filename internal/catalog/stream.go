package catalog

// RecordStream is a lazy cursor over the graph's flat column records,
// following the sql.Rows Next/Record idiom. Records are produced on demand
// in (catalog, schema, table, ordinal position) order.
type RecordStream struct {
	graph    *Graph
	tableIdx int
	colIdx   int
	current  Record
	done     bool
}

// Next advances the cursor. It returns false when the stream is exhausted.
func (s *RecordStream) Next() bool {
	if s.done {
		return false
	}
	for s.tableIdx < len(s.graph.ordered) {
		node := s.graph.tables[s.graph.ordered[s.tableIdx]]
		if s.colIdx < len(node.columns) {
			col := node.columns[s.colIdx]
			s.colIdx++
			pk, fk, target := s.graph.flags(node, col.Name)
			s.current = Record{
				DBName:     col.Table.Catalog,
				SchemaName: col.Table.Schema,
				TableName:  col.Table.Name,
				ColumnName: col.Name,
				ColumnType: col.RenderedType(),
				PrimaryKey: pk,
				ForeignKey: fk,
				Target:     target,
			}
			return true
		}
		s.tableIdx++
		s.colIdx = 0
	}
	s.done = true
	return false
}

// Record returns the record at the current cursor position.
// Only valid after a call to Next that returned true.
func (s *RecordStream) Record() Record {
	return s.current
}

// Collect drains the stream into a slice. Convenience for callers that do
// not need laziness (tests, MDL generation).
func (s *RecordStream) Collect() []Record {
	var records []Record
	for s.Next() {
		records = append(records, s.Record())
	}
	return records
}
