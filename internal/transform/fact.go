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
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/northwind-dw/etl/internal/logging"
	"github.com/northwind-dw/etl/internal/table"
)

// factColumns is the persisted fact_sales column order.
var factColumns = []string{
	"order_id", "customer_key", "product_key", "date_key", "employee_key",
	"shipper_key", "unit_price", "quantity", "discount", "total_sales",
	"revenue", "freight",
}

// Stats reports what the fact builder did with its input. Dropped rows are
// counted per failing lookup so data-quality losses are visible instead of
// disappearing inside a join-then-filter.
type Stats struct {
	FactInput    int
	FactResolved int
	FactDropped  int
	DroppedBy    map[string]int
}

// keyLookup maps a dimension's business-key values to its surrogate keys.
func keyLookup(dim *table.Table, businessCol, keyCol string) (map[string]int, error) {
	if !dim.HasColumn(businessCol) || !dim.HasColumn(keyCol) {
		return nil, fmt.Errorf("dimension lacks %q or %q", businessCol, keyCol)
	}
	m := make(map[string]int, dim.NumRows())
	for i := 0; i < dim.NumRows(); i++ {
		k, ok := table.KeyString(dim.Value(i, businessCol))
		if !ok {
			continue
		}
		key, ok := dim.Value(i, keyCol).(int)
		if !ok {
			continue
		}
		m[k] = key
	}
	return m, nil
}

// buildFact inner-joins orders with order details and resolves the five
// foreign keys against the already-built dimensions. Order lines whose
// customer, product, employee, shipper, or order date fail to resolve are
// dropped entirely: referential completeness is enforced by exclusion.
func buildFact(orders, details *table.Table, dims *Batch) (*table.Table, Stats, error) {
	stats := Stats{DroppedBy: make(map[string]int)}

	joined, err := orders.InnerJoin(details, "orderid", "orderid", "_ord", "_det")
	if err != nil {
		return nil, stats, fmt.Errorf("joining orders and order details: %w", err)
	}
	stats.FactInput = joined.NumRows()

	customers, err := keyLookup(dims.DimCustomer, "customer_id", "customer_key")
	if err != nil {
		return nil, stats, fmt.Errorf("customer lookup: %w", err)
	}
	products, err := keyLookup(dims.DimProduct, "product_id", "product_key")
	if err != nil {
		return nil, stats, fmt.Errorf("product lookup: %w", err)
	}
	employees, err := keyLookup(dims.DimEmployee, "employee_id", "employee_key")
	if err != nil {
		return nil, stats, fmt.Errorf("employee lookup: %w", err)
	}
	shippers, err := keyLookup(dims.DimShipper, "shipper_id", "shipper_key")
	if err != nil {
		return nil, stats, fmt.Errorf("shipper lookup: %w", err)
	}

	dates := make(map[time.Time]int, dims.DimDate.NumRows())
	for i := 0; i < dims.DimDate.NumRows(); i++ {
		d, ok := dims.DimDate.Value(i, "full_date").(time.Time)
		if !ok {
			continue
		}
		key, ok := dims.DimDate.Value(i, "date_key").(int)
		if !ok {
			continue
		}
		dates[d] = key
	}

	resolve := func(m map[string]int, v any) (int, bool) {
		k, ok := table.KeyString(v)
		if !ok {
			return 0, false
		}
		key, found := m[k]
		return key, found
	}

	out := table.New(factColumns...)
	for i := 0; i < joined.NumRows(); i++ {
		customerKey, ok := resolve(customers, joined.Value(i, "customerid"))
		if !ok {
			stats.DroppedBy["customer_key"]++
			continue
		}
		productKey, ok := resolve(products, joined.Value(i, "productid"))
		if !ok {
			stats.DroppedBy["product_key"]++
			continue
		}
		employeeKey, ok := resolve(employees, joined.Value(i, "employeeid"))
		if !ok {
			stats.DroppedBy["employee_key"]++
			continue
		}
		shipperKey, ok := resolve(shippers, joined.Value(i, "shipvia"))
		if !ok {
			stats.DroppedBy["shipper_key"]++
			continue
		}
		var dateKey int
		if d, parsed := parseDate(joined.Value(i, "orderdate")); parsed {
			key, found := dates[d]
			if !found {
				stats.DroppedBy["date_key"]++
				continue
			}
			dateKey = key
		} else {
			stats.DroppedBy["date_key"]++
			continue
		}

		orderID, _ := parseInt(joined.Value(i, "orderid"))
		unitPrice, _ := parseFloat(joined.Value(i, "unitprice"))
		quantity, _ := parseInt(joined.Value(i, "quantity"))
		discount, _ := parseFloat(joined.Value(i, "discount"))

		total := totalSales(quantity, unitPrice, discount)

		var freight any
		if f, ok := parseFloat(joined.Value(i, "freight")); ok {
			freight = f
		}

		row := []any{
			orderID, customerKey, productKey, dateKey, employeeKey,
			shipperKey, unitPrice, quantity, discount, total, total, freight,
		}
		if err := out.Append(row); err != nil {
			return nil, stats, err
		}
	}

	stats.FactResolved = out.NumRows()
	stats.FactDropped = stats.FactInput - stats.FactResolved

	ev := logging.Info().
		Int("input_rows", stats.FactInput).
		Int("resolved_rows", stats.FactResolved).
		Int("dropped_rows", stats.FactDropped)
	for key, n := range stats.DroppedBy {
		ev = ev.Int("dropped_"+key, n)
	}
	ev.Msg("Built fact_sales")

	return out, stats, nil
}

// totalSales computes round(quantity * unit_price * (1 - discount), 2)
// with decimal arithmetic so the 2-decimal rounding is exact.
func totalSales(quantity int, unitPrice, discount float64) float64 {
	total := decimal.NewFromInt(int64(quantity)).
		Mul(decimal.NewFromFloat(unitPrice)).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount))).
		Round(2)
	f, _ := total.Float64()
	return f
}
