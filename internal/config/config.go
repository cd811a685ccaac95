//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for nwdw-etl.
// Configuration is loaded from config files and CLI flags; CLI flags take
// precedence over config file values. Required fields are validated up
// front rather than read ad hoc from the environment mid-run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for nwdw-etl.
type Config struct {
	// Connection is the PostgreSQL connection string for the warehouse.
	Connection string `mapstructure:"connection"`

	// Schema is the warehouse schema the star tables live in.
	Schema string `mapstructure:"schema"`

	// DataDir is the directory containing the source CSV exports.
	DataDir string `mapstructure:"data_dir"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Gen holds configuration for the gen subcommand.
	Gen GenConfig `mapstructure:"gen"`
}

// GenConfig holds configuration for sample data generation.
type GenConfig struct {
	// Seed makes generated CSVs reproducible. 0 means a random seed.
	Seed uint64 `mapstructure:"seed"`

	// Orders is the number of orders to generate; the other sources are
	// scaled from it.
	Orders int `mapstructure:"orders"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Schema:   "northwind_dw",
		DataDir:  "data",
		LogLevel: "info",
		Gen: GenConfig{
			Orders: 200,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./nwdw-etl.yaml
// 3. ~/.config/nwdw-etl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("nwdw-etl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "nwdw-etl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	if c.Schema == "" {
		return fmt.Errorf("warehouse schema is required")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	info, err := os.Stat(c.DataDir)
	if err != nil {
		return fmt.Errorf("data directory %q is not accessible: %w", c.DataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %q is not a directory", c.DataDir)
	}
	return nil
}

// ValidateGen checks configuration required for the gen command.
func (c *Config) ValidateGen() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Gen.Orders < 1 {
		return fmt.Errorf("gen.orders must be at least 1")
	}
	return nil
}
