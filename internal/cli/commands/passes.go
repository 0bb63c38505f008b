package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/state"
)

// PassesOptions holds options for the passes command.
type PassesOptions struct {
	Limit int
}

// NewPassesCommand creates the passes command.
func NewPassesCommand() *cobra.Command {
	opts := &PassesOptions{}

	cmd := &cobra.Command{
		Use:     "passes",
		Short:   "List recorded materialization passes",
		Aliases: []string{"list"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPasses(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of passes to show")

	return cmd
}

func runPasses(cmd *cobra.Command, opts *PassesOptions) error {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	store, err := cctx.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	passes, err := store.ListPasses(opts.Limit)
	if err != nil {
		return err
	}

	if cctx.Cfg.OutputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(passes)
	}
	return renderPassesTable(cmd.OutOrStdout(), passes)
}

func renderPassesTable(w io.Writer, passes []*state.Pass) error {
	if len(passes) == 0 {
		_, _ = fmt.Fprintln(w, "(no passes recorded)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Status", "Language", "Years", "Flat Rows", "Started", "Completed"})

	for _, p := range passes {
		completed := ""
		if p.CompletedAt != nil {
			completed = p.CompletedAt.Format(time.RFC3339)
		}
		t.AppendRow(table.Row{
			p.ID, p.Status, p.Language, p.YearsDifference, p.FlatRowCount,
			p.StartedAt.Format(time.RFC3339), completed,
		})
	}

	t.Render()
	return nil
}
