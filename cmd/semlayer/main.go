// Package main is the entry point for the semlayer CLI.
package main

import (
	"os"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/cli"

	// Register warehouse adapters.
	_ "github.com/grimbano/ucm-tfm-grupo-4/pkg/adapters/duckdb"
	_ "github.com/grimbano/ucm-tfm-grupo-4/pkg/adapters/postgres"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
