//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"github.com/northwind-dw/etl/internal/table"
)

// Normalize lowercases every column name in every source table so the
// builders can rely on a single casing convention. Inputs are not mutated.
func Normalize(raw map[string]*table.Table) map[string]*table.Table {
	out := make(map[string]*table.Table, len(raw))
	for name, tbl := range raw {
		out[name] = tbl.LowercaseColumns()
	}
	return out
}

// buildDimension assigns a dense 1-based surrogate key in row order and
// materializes the declared columns, applying each spec's type coercion
// and default policy.
//
// Surrogate keys are positional: they are NOT stable across runs because
// they follow the row order of the source extract. dim_date is the only
// dimension with run-stable keys (YYYYMMDD).
func buildDimension(src *table.Table, keyName string, specs []colSpec) (*table.Table, error) {
	// Resolve each spec to an actual source column, preferring the primary
	// name and falling back to the alternate (join-suffixed sources).
	resolved := make([]string, len(specs))
	missing := make([]string, 0)
	for i, spec := range specs {
		switch {
		case src.HasColumn(spec.src):
			resolved[i] = spec.src
		case spec.alt != "" && src.HasColumn(spec.alt):
			resolved[i] = spec.alt
		default:
			resolved[i] = spec.src
			missing = append(missing, spec.src)
		}
	}
	src = src.EnsureColumns(missing...)

	cols := make([]string, 0, len(specs)+1)
	cols = append(cols, keyName)
	for _, spec := range specs {
		cols = append(cols, spec.dst)
	}

	out := table.New(cols...)
	for i := 0; i < src.NumRows(); i++ {
		row := make([]any, 0, len(cols))
		row = append(row, i+1)
		for j, spec := range specs {
			row = append(row, spec.convert(src.Value(i, resolved[j])))
		}
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}
