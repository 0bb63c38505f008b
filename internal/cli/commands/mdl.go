package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/catalog"
	"github.com/grimbano/ucm-tfm-grupo-4/internal/mdl"
)

// MDLOptions holds options for the mdl command.
type MDLOptions struct {
	Databases   []string
	Schemas     []string
	OutputDir   string
	Placeholder string
}

// NewMDLCommand creates the mdl command.
func NewMDLCommand() *cobra.Command {
	opts := &MDLOptions{}

	cmd := &cobra.Command{
		Use:   "mdl",
		Short: "Generate base MDL YAML files from the warehouse catalog",
		Long: `Extract the relational catalog and write one MDL (Model Definition
Language) YAML file per database. Every description field carries a
placeholder meant to be completed by hand before the documents are used.`,
		Example: `  # Generate into the configured mdl directory
  semlayer mdl

  # Generate into a specific directory
  semlayer mdl --output-dir docs/mdl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMDL(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Databases, "databases", nil, "Comma-separated database names to extract")
	cmd.Flags().StringSliceVar(&opts.Schemas, "schemas", nil, "Comma-separated schema names to extract")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Directory to write MDL files into (default: catalog.mdl_dir)")
	cmd.Flags().StringVar(&opts.Placeholder, "placeholder", "", "Description placeholder text")

	return cmd
}

func runMDL(cmd *cobra.Command, opts *MDLOptions) error {
	cctx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	databases, schemas, err := targetLists(cctx, opts.Databases, opts.Schemas)
	if err != nil {
		return err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cctx.Cfg.Catalog.MDLDir
		if err := os.MkdirAll(outputDir, 0o750); err != nil {
			return fmt.Errorf("failed to create MDL directory: %w", err)
		}
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

	genOpts := []mdl.Option{mdl.WithLogger(cctx.Logger)}
	if opts.Placeholder != "" {
		genOpts = append(genOpts, mdl.WithPlaceholder(opts.Placeholder))
	}
	gen, err := mdl.NewGenerator(outputDir, genOpts...)
	if err != nil {
		return err
	}

	paths, err := gen.Generate(graph.Records().Collect())
	if err != nil {
		return err
	}

	for _, p := range paths {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
	}
	return nil
}
