//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package load appends transformed tables into the warehouse schema.
// Loading is best-effort per table: a failing table is logged and recorded
// in the report, and the remaining tables still load.
package load

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/northwind-dw/etl/internal/db"
	"github.com/northwind-dw/etl/internal/logging"
	"github.com/northwind-dw/etl/internal/table"
	"github.com/northwind-dw/etl/internal/transform"
	"github.com/northwind-dw/etl/internal/warehouse"
)

const defaultBatchSize = 500

// TableResult is the outcome of loading one warehouse table.
type TableResult struct {
	Name    string
	Rows    int
	Skipped bool
	Err     error
}

// Report aggregates per-table outcomes for one load. The caller decides
// whether any individual failure is fatal.
type Report struct {
	Tables []TableResult
}

// RowsLoaded returns the total rows written across all tables.
func (r *Report) RowsLoaded() int {
	total := 0
	for _, t := range r.Tables {
		total += t.Rows
	}
	return total
}

// Failed returns the results for tables that failed to load.
func (r *Report) Failed() []TableResult {
	var failed []TableResult
	for _, t := range r.Tables {
		if t.Err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}

// AllFailed reports whether every attempted (non-skipped) table failed.
func (r *Report) AllFailed() bool {
	attempted := 0
	for _, t := range r.Tables {
		if t.Skipped {
			continue
		}
		attempted++
		if t.Err == nil {
			return false
		}
	}
	return attempted > 0
}

// Loader appends batches into a warehouse schema.
type Loader struct {
	conn      db.DB
	schema    string
	batchSize int
}

// New creates a Loader writing into the given schema.
func New(conn db.DB, schema string) *Loader {
	return &Loader{conn: conn, schema: schema, batchSize: defaultBatchSize}
}

// Load appends every table of the batch in dependency order: dimensions
// first, then the fact table, whose rows reference dimension surrogate
// keys. Empty tables are skipped with a warning. Append semantics only:
// rerunning the same batch without truncating the destination duplicates
// its rows.
func (l *Loader) Load(ctx context.Context, batch *transform.Batch) *Report {
	report := &Report{}
	tables := batch.Tables()

	for _, spec := range warehouse.LoadOrder {
		tbl := tables[spec.Name]
		if tbl == nil || tbl.NumRows() == 0 {
			logging.Warn().Str("table", spec.Name).Msg("Skipping load: no rows")
			report.Tables = append(report.Tables, TableResult{Name: spec.Name, Skipped: true})
			continue
		}

		rows, err := l.loadTable(ctx, spec, tbl)
		if err != nil {
			logging.Error().Err(err).Str("table", spec.Name).Msg("Load failed")
		} else {
			logging.Info().Str("table", spec.Name).Int("rows", rows).Msg("Loaded table")
		}
		report.Tables = append(report.Tables, TableResult{Name: spec.Name, Rows: rows, Err: err})
	}

	return report
}

// loadTable appends one table in batched multi-row INSERTs.
func (l *Loader) loadTable(ctx context.Context, spec warehouse.TableSpec, tbl *table.Table) (int, error) {
	for _, col := range spec.Columns {
		if !tbl.HasColumn(col) {
			return 0, fmt.Errorf("table %s: transformed output lacks column %q", spec.Name, col)
		}
	}

	target := fmt.Sprintf("%s.%s",
		pgx.Identifier{l.schema}.Sanitize(),
		pgx.Identifier{spec.Name}.Sanitize())

	loaded := 0
	for start := 0; start < tbl.NumRows(); start += l.batchSize {
		end := start + l.batchSize
		if end > tbl.NumRows() {
			end = tbl.NumRows()
		}

		stmt, args := buildInsert(target, spec.Columns, tbl, start, end)
		if _, err := l.conn.Exec(ctx, stmt, args...); err != nil {
			return loaded, fmt.Errorf("inserting into %s: %w", spec.Name, err)
		}
		loaded += end - start
	}
	return loaded, nil
}

// buildInsert renders a multi-row parameterized INSERT for rows [start, end).
func buildInsert(target string, cols []string, tbl *table.Table, start, end int) (string, []any) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(target)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, (end-start)*len(cols))
	p := 1
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, col := range cols {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", p)
			p++
			args = append(args, tbl.Value(i, col))
		}
		sb.WriteString(")")
	}
	return sb.String(), args
}
