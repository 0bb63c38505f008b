package duckdb

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to install and load (e.g., "icu", "json")
	Extensions []string `mapstructure:"extensions"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`
}

// applyParams decodes and applies DuckDB-specific session configuration.
func (a *Adapter) applyParams(ctx context.Context, cfg adapter.Config) error {
	if len(cfg.Params) == 0 {
		return nil
	}

	var params Params
	if err := mapstructure.Decode(cfg.Params, &params); err != nil {
		return fmt.Errorf("failed to decode duckdb params: %w", err)
	}

	for _, ext := range params.Extensions {
		if err := a.Exec(ctx, fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext)); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}

	for key, value := range params.Settings {
		if err := a.Exec(ctx, fmt.Sprintf("SET %s = '%s'", key, value)); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", key, err)
		}
	}

	return nil
}
