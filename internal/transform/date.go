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
	"sort"
	"time"

	"github.com/northwind-dw/etl/internal/table"
)

// dateColumns is the persisted dim_date column order.
var dateColumns = []string{
	"date_key", "full_date", "year", "quarter", "month", "month_name",
	"day", "day_of_week", "day_name", "week_of_year", "is_weekend",
	"is_holiday",
}

// buildDate derives the calendar dimension from the distinct order and
// ship dates in the orders source. Unparseable date strings are discarded,
// not defaulted. The key is the YYYYMMDD integer, so unlike the other
// dimensions these keys are stable across runs.
//
// is_holiday is always false: no holiday calendar is integrated.
func buildDate(orders *table.Table) (*table.Table, error) {
	orders = orders.EnsureColumns("orderdate", "shippeddate")

	seen := make(map[time.Time]bool)
	dates := make([]time.Time, 0, orders.NumRows())
	for i := 0; i < orders.NumRows(); i++ {
		for _, col := range []string{"orderdate", "shippeddate"} {
			d, ok := parseDate(orders.Value(i, col))
			if !ok || seen[d] {
				continue
			}
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := table.New(dateColumns...)
	for _, d := range dates {
		_, week := d.ISOWeek()
		dow := isoWeekday(d)
		row := []any{
			dateKey(d),
			d,
			d.Year(),
			(int(d.Month())-1)/3 + 1,
			int(d.Month()),
			d.Month().String(),
			d.Day(),
			dow,
			d.Weekday().String(),
			week,
			dow >= 6,
			false,
		}
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// dateKey returns the YYYYMMDD integer key for a date.
func dateKey(d time.Time) int {
	return d.Year()*10000 + int(d.Month())*100 + d.Day()
}

// isoWeekday maps a date to 1 (Monday) through 7 (Sunday).
func isoWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
