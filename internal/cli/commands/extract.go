package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/catalog"
)

// ExtractOptions holds options for the extract command.
type ExtractOptions struct {
	Databases []string
	Schemas   []string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the relational catalog from the warehouse",
		Long: `Introspect the warehouse's information schema and print one row per
column: its type, key flags, and the fully qualified column a foreign key
references. Composite foreign keys are resolved positionally.`,
		Example: `  # Extract using the scope from semlayer.yaml
  semlayer extract

  # Extract specific schemas
  semlayer extract --databases dw --schemas main,staging

  # JSON output for scripting
  semlayer extract -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Databases, "databases", nil, "Comma-separated database names to extract")
	cmd.Flags().StringSliceVar(&opts.Schemas, "schemas", nil, "Comma-separated schema names to extract")

	return cmd
}

func runExtract(cmd *cobra.Command, opts *ExtractOptions) error {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	databases, schemas, err := targetLists(cctx, opts.Databases, opts.Schemas)
	if err != nil {
		return err
	}

	db, err := cctx.openAdapter(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	extractor := catalog.NewExtractor(db, cctx.Logger)
	graph, err := extractor.Extract(cmd.Context(), databases, schemas)
	if err != nil {
		return fmt.Errorf("catalog extraction failed: %w", err)
	}

	records := graph.Records().Collect()
	if cctx.Cfg.OutputFormat == "json" {
		return renderRecordsJSON(cmd.OutOrStdout(), records)
	}
	return renderRecordsTable(cmd.OutOrStdout(), records)
}

func renderRecordsTable(w io.Writer, records []catalog.Record) error {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "(0 columns)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Database", "Schema", "Table", "Column", "Type", "PK", "FK", "Target"})

	for _, r := range records {
		target := ""
		if r.Target != nil {
			target = *r.Target
		}
		t.AppendRow(table.Row{
			r.DBName, r.SchemaName, r.TableName, r.ColumnName, r.ColumnType,
			boolMark(r.PrimaryKey), boolMark(r.ForeignKey), target,
		})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d columns)\n", len(records))
	return nil
}

type recordJSON struct {
	DBName     string  `json:"db_name"`
	SchemaName string  `json:"schema_name"`
	TableName  string  `json:"table_name"`
	ColumnName string  `json:"column_name"`
	ColumnType string  `json:"column_type"`
	PrimaryKey bool    `json:"primary_key"`
	ForeignKey bool    `json:"foreign_key"`
	Target     *string `json:"target"`
}

func renderRecordsJSON(w io.Writer, records []catalog.Record) error {
	out := make([]recordJSON, len(records))
	for i, r := range records {
		out[i] = recordJSON(r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func boolMark(b bool) string {
	if b {
		return "x"
	}
	return ""
}
