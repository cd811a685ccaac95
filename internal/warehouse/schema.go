//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse declares the star-schema target: DDL for the five
// dimension tables and the sales fact table, plus the order they must be
// loaded in.
package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/northwind-dw/etl/internal/db"
	"github.com/northwind-dw/etl/internal/logging"
)

// Key and foreign-key constraints are deliberately absent: the loader is
// append-only and rerunning a batch without truncating first is documented
// behavior, which unique keys would turn into load failures.
const createTablesSQL = `
CREATE TABLE IF NOT EXISTS %[1]s.dim_date (
    date_key       INTEGER NOT NULL,
    full_date      DATE NOT NULL,
    year           INTEGER NOT NULL,
    quarter        INTEGER NOT NULL,
    month          INTEGER NOT NULL,
    month_name     VARCHAR(20) NOT NULL,
    day            INTEGER NOT NULL,
    day_of_week    INTEGER NOT NULL,
    day_name       VARCHAR(20) NOT NULL,
    week_of_year   INTEGER NOT NULL,
    is_weekend     BOOLEAN NOT NULL,
    is_holiday     BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS %[1]s.dim_shipper (
    shipper_key    INTEGER NOT NULL,
    shipper_id     INTEGER,
    company_name   VARCHAR(100),
    phone          VARCHAR(40)
);

CREATE TABLE IF NOT EXISTS %[1]s.dim_customer (
    customer_key   INTEGER NOT NULL,
    customer_id    VARCHAR(10),
    company_name   VARCHAR(100),
    contact_name   VARCHAR(60),
    contact_title  VARCHAR(60),
    address        VARCHAR(120),
    city           VARCHAR(30),
    region         VARCHAR(30),
    postal_code    VARCHAR(20),
    country        VARCHAR(30),
    phone          VARCHAR(40),
    fax            VARCHAR(40)
);

CREATE TABLE IF NOT EXISTS %[1]s.dim_employee (
    employee_key      INTEGER NOT NULL,
    employee_id       INTEGER,
    last_name         VARCHAR(40),
    first_name        VARCHAR(20),
    full_name         VARCHAR(60),
    title             VARCHAR(60),
    title_of_courtesy VARCHAR(40),
    birth_date        DATE,
    hire_date         DATE,
    address           VARCHAR(120),
    city              VARCHAR(30),
    region            VARCHAR(30),
    country           VARCHAR(30),
    home_phone        VARCHAR(40),
    reports_to        INTEGER,
    reports_to_name   VARCHAR(60),
    salary            NUMERIC(12,2)
);

CREATE TABLE IF NOT EXISTS %[1]s.dim_product (
    product_key           INTEGER NOT NULL,
    product_id            INTEGER,
    product_name          VARCHAR(80),
    category_id           INTEGER,
    category_name         VARCHAR(40),
    category_description  TEXT,
    supplier_id           INTEGER,
    supplier_name         VARCHAR(100),
    supplier_contact_name VARCHAR(60),
    supplier_country      VARCHAR(30),
    supplier_phone        VARCHAR(40),
    quantity_per_unit     VARCHAR(40),
    unit_price            NUMERIC(12,2),
    units_in_stock        INTEGER,
    units_on_order        INTEGER,
    reorder_level         INTEGER,
    discontinued          BOOLEAN
);

CREATE TABLE IF NOT EXISTS %[1]s.fact_sales (
    order_id      INTEGER NOT NULL,
    customer_key  INTEGER NOT NULL,
    product_key   INTEGER NOT NULL,
    date_key      INTEGER NOT NULL,
    employee_key  INTEGER NOT NULL,
    shipper_key   INTEGER NOT NULL,
    unit_price    NUMERIC(12,2),
    quantity      INTEGER,
    discount      NUMERIC(5,4),
    total_sales   NUMERIC(14,2),
    revenue       NUMERIC(14,2),
    freight       NUMERIC(12,2)
);
`

// TableSpec names a warehouse table and its persisted column order.
type TableSpec struct {
	Name    string
	Columns []string
}

// LoadOrder lists every warehouse table in foreign-key dependency order:
// dimensions first, the fact table last.
var LoadOrder = []TableSpec{
	{
		Name: "dim_date",
		Columns: []string{
			"date_key", "full_date", "year", "quarter", "month", "month_name",
			"day", "day_of_week", "day_name", "week_of_year", "is_weekend",
			"is_holiday",
		},
	},
	{
		Name: "dim_shipper",
		Columns: []string{
			"shipper_key", "shipper_id", "company_name", "phone",
		},
	},
	{
		Name: "dim_customer",
		Columns: []string{
			"customer_key", "customer_id", "company_name", "contact_name",
			"contact_title", "address", "city", "region", "postal_code",
			"country", "phone", "fax",
		},
	},
	{
		Name: "dim_employee",
		Columns: []string{
			"employee_key", "employee_id", "last_name", "first_name",
			"full_name", "title", "title_of_courtesy", "birth_date",
			"hire_date", "address", "city", "region", "country",
			"home_phone", "reports_to", "reports_to_name", "salary",
		},
	},
	{
		Name: "dim_product",
		Columns: []string{
			"product_key", "product_id", "product_name", "category_id",
			"category_name", "category_description", "supplier_id",
			"supplier_name", "supplier_contact_name", "supplier_country",
			"supplier_phone", "quantity_per_unit", "unit_price",
			"units_in_stock", "units_on_order", "reorder_level",
			"discontinued",
		},
	},
	{
		Name: "fact_sales",
		Columns: []string{
			"order_id", "customer_key", "product_key", "date_key",
			"employee_key", "shipper_key", "unit_price", "quantity",
			"discount", "total_sales", "revenue", "freight",
		},
	},
}

// CreateSchema creates the warehouse schema and its tables.
func CreateSchema(ctx context.Context, conn db.DB, schema string) error {
	ident := pgx.Identifier{schema}.Sanitize()

	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", ident)); err != nil {
		return fmt.Errorf("creating schema %s: %w", schema, err)
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf(createTablesSQL, ident)); err != nil {
		return fmt.Errorf("creating warehouse tables: %w", err)
	}

	logging.Info().Str("schema", schema).Msg("Warehouse schema ready")
	return nil
}

// DropSchema drops the warehouse tables. The schema itself is left in
// place since it may hold objects the pipeline does not own.
func DropSchema(ctx context.Context, conn db.DB, schema string) error {
	ident := pgx.Identifier{schema}.Sanitize()

	// Fact first so a future constraint-bearing variant drops cleanly.
	for i := len(LoadOrder) - 1; i >= 0; i-- {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s.%s",
			ident, pgx.Identifier{LoadOrder[i].Name}.Sanitize())
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("dropping %s: %w", LoadOrder[i].Name, err)
		}
	}

	logging.Info().Str("schema", schema).Msg("Warehouse tables dropped")
	return nil
}
