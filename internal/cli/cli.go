//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for nwdw-etl.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/northwind-dw/etl/internal/config"
	"github.com/northwind-dw/etl/internal/logging"
	"github.com/northwind-dw/etl/internal/warehouse"
	"github.com/northwind-dw/etl/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	schema     string
	dataDir    string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "nwdw-etl",
		Short: "Batch ETL from Northwind CSV exports into a star-schema warehouse",
		Long: `nwdw-etl reads normalized Northwind CSV exports (orders, order details,
products, categories, customers, employees, shippers, suppliers), builds
conformed dimension tables and a sales fact table, and appends them into
a PostgreSQL warehouse schema.

Every run is a full-refresh batch: dimensions are rebuilt from scratch and
appended; the loader never truncates the destination.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./nwdw-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string for the warehouse")
	rootCmd.PersistentFlags().StringVar(&schema, "schema", "",
		"warehouse schema name (default: northwind_dw)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"directory containing the source CSV exports (default: ./data)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initdbCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if schema != "" {
		cfg.Schema = schema
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List warehouse tables in load order",
	Long: `List the star-schema tables this pipeline produces, in the order the
loader writes them (dimensions before the fact table).`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Warehouse tables (load order):")
		cmd.Println()
		for _, spec := range warehouse.LoadOrder {
			cmd.Printf("  %-13s %d columns\n", spec.Name, len(spec.Columns))
		}
		cmd.Println()
		cmd.Println("fact_sales references the dimension surrogate keys; load order matters.")
	},
}
