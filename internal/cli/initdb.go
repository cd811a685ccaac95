package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northwind-dw/etl/internal/db"
	"github.com/northwind-dw/etl/internal/logging"
	"github.com/northwind-dw/etl/internal/warehouse"
)

var initdbDropExisting bool

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the warehouse schema and star-schema tables",
	Long: `Create the warehouse schema (if missing) and the five dimension tables
plus the sales fact table.

Example:
  nwdw-etl initdb --connection "postgres://..." --schema northwind_dw`,
	RunE: runInitdb,
}

func init() {
	initdbCmd.Flags().BoolVar(&initdbDropExisting, "drop-existing", false,
		"drop existing warehouse tables before creating them")
}

func runInitdb(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	if initdbDropExisting {
		logging.Info().Str("schema", cfg.Schema).Msg("Dropping existing warehouse tables")
		if err := warehouse.DropSchema(ctx, pool, cfg.Schema); err != nil {
			return err
		}
	}

	return warehouse.CreateSchema(ctx, pool, cfg.Schema)
}
