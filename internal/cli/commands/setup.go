package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/config"
	"github.com/grimbano/ucm-tfm-grupo-4/internal/state"
	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext extracts the loaded config and logger from the command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.LoggerFromContext(cmd.Context()),
	}, nil
}

// openAdapter connects to the configured warehouse. The caller owns the
// returned adapter and must close it.
func (c *CommandContext) openAdapter(ctx context.Context) (adapter.Adapter, error) {
	cfg := c.Cfg.Target.ToAdapterConfig()
	db, err := adapter.New(cfg, c.Logger)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("connecting to warehouse: %w", err)
	}
	return db, nil
}

// openStore opens the pass-history store, creating its directory and
// migrating the schema. The caller owns the returned store.
func (c *CommandContext) openStore() (state.Store, error) {
	stateDir := filepath.Dir(c.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	s := state.NewSQLiteStore(c.Logger)
	if err := s.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// targetLists returns the extraction scope, preferring explicit flag values
// over the config file.
func targetLists(c *CommandContext, flagDatabases, flagSchemas []string) (databases, schemas []string, err error) {
	databases = flagDatabases
	if len(databases) == 0 {
		databases = c.Cfg.Catalog.Databases
	}
	schemas = flagSchemas
	if len(schemas) == 0 {
		schemas = c.Cfg.Catalog.Schemas
	}

	if len(databases) == 0 || len(schemas) == 0 {
		return nil, nil, fmt.Errorf("no extraction targets: set catalog.databases and catalog.schemas in semlayer.yaml or pass --databases/--schemas")
	}
	return databases, schemas, nil
}
