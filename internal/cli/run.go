package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northwind-dw/etl/internal/db"
	"github.com/northwind-dw/etl/internal/logging"
	"github.com/northwind-dw/etl/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full ETL batch",
	Long: `Extract the CSV exports from the data directory, build the dimension
and fact tables, and append them into the warehouse schema.

The loader appends; it never truncates. Rerunning against an uncleaned
schema duplicates the batch.

Example:
  nwdw-etl run --data-dir ./data --connection "postgres://..." --schema northwind_dw`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	result, err := pipeline.Run(ctx, pool, cfg.DataDir, cfg.Schema)
	if err != nil {
		return err
	}

	for _, failed := range result.Load.Failed() {
		logging.Warn().
			Str("table", failed.Name).
			Err(failed.Err).
			Msg("Table failed to load; rest of the batch was still written")
	}
	return nil
}
