//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract reads the source CSV exports into in-memory tables.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/northwind-dw/etl/internal/logging"
	"github.com/northwind-dw/etl/internal/table"
)

// Sources maps each logical table name to its expected file name in the
// data directory. Every file must be present for a run to proceed.
var Sources = map[string]string{
	"orders":        "orders.csv",
	"order_details": "order_details.csv",
	"products":      "products.csv",
	"categories":    "categories.csv",
	"customers":     "customers.csv",
	"employees":     "employees.csv",
	"shippers":      "shippers.csv",
	"suppliers":     "suppliers.csv",
}

// sourceOrder fixes the extraction (and logging) order.
var sourceOrder = []string{
	"orders", "order_details", "products", "categories",
	"customers", "employees", "shippers", "suppliers",
}

// Extract reads every source file from dir. It fails on the first missing
// or unreadable file, before any transform work begins.
func Extract(dir string) (map[string]*table.Table, error) {
	data := make(map[string]*table.Table, len(Sources))

	for _, name := range sourceOrder {
		path := filepath.Join(dir, Sources[name])
		tbl, err := readCSV(path)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", name, err)
		}
		data[name] = tbl
		logging.Info().
			Str("source", name).
			Int("rows", tbl.NumRows()).
			Msg("Loaded source")
	}

	logging.Info().Int("tables", len(data)).Msg("Extraction complete")
	return data, nil
}

// readCSV loads one CSV file into a table. The first record is the header;
// all values are kept as strings for the transform phase to parse.
func readCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}

	tbl := table.New(header...)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}
		if err := tbl.Append(row); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return tbl, nil
}
