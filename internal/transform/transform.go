//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package transform builds the star-schema tables from the normalized
// source row-sets: four conformed dimensions, the calendar dimension, and
// the sales fact table with resolved surrogate keys.
package transform

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/northwind-dw/etl/internal/logging"
	"github.com/northwind-dw/etl/internal/table"
)

// Batch holds one run's transformed tables, ready for loading.
type Batch struct {
	DimShipper  *table.Table
	DimCustomer *table.Table
	DimEmployee *table.Table
	DimProduct  *table.Table
	DimDate     *table.Table
	FactSales   *table.Table

	Stats Stats
}

// Tables returns the batch's tables keyed by warehouse table name.
func (b *Batch) Tables() map[string]*table.Table {
	return map[string]*table.Table{
		"dim_shipper":  b.DimShipper,
		"dim_customer": b.DimCustomer,
		"dim_employee": b.DimEmployee,
		"dim_product":  b.DimProduct,
		"dim_date":     b.DimDate,
		"fact_sales":   b.FactSales,
	}
}

// All normalizes the raw sources and builds every warehouse table. The
// dimension builders are independent of one another and run concurrently;
// the fact builder waits for all of them. A transform error is fatal to
// the run.
func All(ctx context.Context, raw map[string]*table.Table) (*Batch, error) {
	data := Normalize(raw)
	for _, name := range []string{
		"orders", "order_details", "products", "categories",
		"customers", "employees", "shippers", "suppliers",
	} {
		if data[name] == nil {
			return nil, fmt.Errorf("missing source table %q", name)
		}
	}

	batch := &Batch{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		batch.DimShipper, err = buildShipper(data["shippers"])
		if err != nil {
			return fmt.Errorf("building dim_shipper: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		batch.DimCustomer, err = buildCustomer(data["customers"])
		if err != nil {
			return fmt.Errorf("building dim_customer: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		batch.DimEmployee, err = buildEmployee(data["employees"])
		if err != nil {
			return fmt.Errorf("building dim_employee: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		batch.DimProduct, err = buildProduct(data["products"], data["categories"], data["suppliers"])
		if err != nil {
			return fmt.Errorf("building dim_product: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		batch.DimDate, err = buildDate(data["orders"])
		if err != nil {
			return fmt.Errorf("building dim_date: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for name, tbl := range batch.Tables() {
		if name == "fact_sales" {
			continue
		}
		logging.Info().Str("table", name).Int("rows", tbl.NumRows()).Msg("Built dimension")
	}

	fact, stats, err := buildFact(data["orders"], data["order_details"], batch)
	if err != nil {
		return nil, fmt.Errorf("building fact_sales: %w", err)
	}
	batch.FactSales = fact
	batch.Stats = stats

	total := 0
	for _, tbl := range batch.Tables() {
		total += tbl.NumRows()
	}
	if total == 0 {
		return nil, fmt.Errorf("transform produced no rows")
	}

	return batch, nil
}
