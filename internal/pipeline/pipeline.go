//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the full extract, transform, load sequence.
// Extraction and transformation errors abort the run; load failures are
// per-table and land in the report for the caller to judge.
package pipeline

import (
	"context"
	"fmt"

	"github.com/northwind-dw/etl/internal/db"
	"github.com/northwind-dw/etl/internal/extract"
	"github.com/northwind-dw/etl/internal/load"
	"github.com/northwind-dw/etl/internal/logging"
	"github.com/northwind-dw/etl/internal/transform"
)

// Result carries what each phase did in one run.
type Result struct {
	// SourceRows is the extracted row count per source table.
	SourceRows map[string]int

	// Stats reports the fact builder's input/resolved/dropped counts.
	Stats transform.Stats

	// Load aggregates the per-table load outcomes.
	Load *load.Report
}

// Run executes one full-refresh batch: extract the CSV sources from
// dataDir, build the star-schema tables, and append them into the
// warehouse schema through conn.
func Run(ctx context.Context, conn db.DB, dataDir, schema string) (*Result, error) {
	logging.Info().Str("data_dir", dataDir).Msg("Extraction phase")
	raw, err := extract.Extract(dataDir)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	result := &Result{SourceRows: make(map[string]int, len(raw))}
	for name, tbl := range raw {
		result.SourceRows[name] = tbl.NumRows()
	}

	logging.Info().Msg("Transformation phase")
	batch, err := transform.All(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("transformation failed: %w", err)
	}
	result.Stats = batch.Stats

	logging.Info().Str("schema", schema).Msg("Load phase")
	result.Load = load.New(conn, schema).Load(ctx, batch)

	if result.Load.AllFailed() {
		return result, fmt.Errorf("every table failed to load")
	}

	logging.Info().
		Int("rows_loaded", result.Load.RowsLoaded()).
		Int("fact_rows", result.Stats.FactResolved).
		Int("fact_dropped", result.Stats.FactDropped).
		Msg("Pipeline complete")
	return result, nil
}
