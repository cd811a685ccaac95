//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/northwind-dw/etl/internal/logging"
)

// Headers use the source system's mixed casing on purpose: generated
// exports have to look like the real ones so the column normalizer is
// exercised end to end.

var categoryNames = []string{
	"Beverages", "Condiments", "Confections", "Dairy Products",
	"Grains/Cereals", "Meat/Poultry", "Produce", "Seafood",
}

// WriteSampleData writes a deterministic set of Northwind-shaped CSV
// exports into dir. The orders parameter sets the order count; the other
// sources scale from it.
func WriteSampleData(dir string, seed uint64, orders int) error {
	f := NewFaker()
	if seed != 0 {
		f = NewFakerWithSeed(seed)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	numCustomers := max(5, orders/10)
	numEmployees := max(3, orders/50)
	numSuppliers := max(3, orders/40)
	numProducts := max(8, orders/5)
	numShippers := 3

	gen := &sampleGen{faker: f, dir: dir}
	gen.customers(numCustomers)
	gen.employees(numEmployees)
	gen.suppliers(numSuppliers)
	gen.categories()
	gen.products(numProducts, numSuppliers)
	gen.shippers(numShippers)
	gen.orders(orders, numCustomers, numEmployees, numShippers)
	gen.orderDetails(orders, numProducts)
	if gen.err != nil {
		return gen.err
	}

	logging.Info().
		Str("dir", dir).
		Int("orders", orders).
		Int("customers", numCustomers).
		Int("products", numProducts).
		Msg("Sample data written")
	return nil
}

type sampleGen struct {
	faker *Faker
	dir   string
	err   error
}

// write renders one CSV file; after the first error the remaining calls
// are no-ops.
func (g *sampleGen) write(name string, header []string, rows [][]string) {
	if g.err != nil {
		return
	}
	path := filepath.Join(g.dir, name)
	file, err := os.Create(path)
	if err != nil {
		g.err = fmt.Errorf("creating %s: %w", path, err)
		return
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		g.err = fmt.Errorf("writing %s: %w", path, err)
		return
	}
	if err := w.WriteAll(rows); err != nil {
		g.err = fmt.Errorf("writing %s: %w", path, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		g.err = fmt.Errorf("flushing %s: %w", path, err)
	}
}

// customerID renders a Northwind-style five-letter customer code.
func (g *sampleGen) customerID(i int) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	id := make([]byte, 5)
	n := i
	for j := range id {
		id[j] = letters[n%26]
		n = n/26 + 7
	}
	return string(id)
}

func (g *sampleGen) customers(n int) {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		region := g.faker.City()
		if g.faker.Int(1, 10) <= 3 {
			region = "" // optional in real exports
		}
		rows = append(rows, []string{
			g.customerID(i),
			g.faker.Company(),
			g.faker.FirstName() + " " + g.faker.LastName(),
			g.faker.JobTitle(),
			g.faker.Street(),
			g.faker.City(),
			region,
			g.faker.Zip(),
			g.faker.Country(),
			g.faker.Phone(),
			g.faker.Phone(),
		})
	}
	g.write("customers.csv",
		[]string{"CustomerID", "CompanyName", "ContactName", "ContactTitle", "Address", "City", "Region", "PostalCode", "Country", "Phone", "Fax"},
		rows)
}

func (g *sampleGen) employees(n int) {
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		reportsTo := ""
		if i > 1 {
			reportsTo = strconv.Itoa(g.faker.Int(1, i-1))
		}
		birth := g.faker.DateRange(
			time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1975, 12, 31, 0, 0, 0, 0, time.UTC))
		hire := g.faker.DateRange(
			time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1996, 12, 31, 0, 0, 0, 0, time.UTC))
		rows = append(rows, []string{
			strconv.Itoa(i),
			g.faker.LastName(),
			g.faker.FirstName(),
			g.faker.JobTitle(),
			Choose(g.faker, []string{"Mr.", "Ms.", "Mrs.", "Dr."}),
			birth.Format("2006-01-02"),
			hire.Format("2006-01-02"),
			g.faker.Street(),
			g.faker.City(),
			g.faker.City(),
			g.faker.Country(),
			g.faker.Phone(),
			reportsTo,
			strconv.FormatFloat(g.faker.Price(40000, 120000), 'f', 2, 64),
		})
	}
	g.write("employees.csv",
		[]string{"EmployeeID", "LastName", "FirstName", "Title", "TitleOfCourtesy", "BirthDate", "HireDate", "Address", "City", "Region", "Country", "HomePhone", "ReportsTo", "Salary"},
		rows)
}

func (g *sampleGen) suppliers(n int) {
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			g.faker.Company(),
			g.faker.FirstName() + " " + g.faker.LastName(),
			g.faker.Street(),
			g.faker.City(),
			g.faker.Zip(),
			g.faker.Country(),
			g.faker.Phone(),
		})
	}
	g.write("suppliers.csv",
		[]string{"SupplierID", "CompanyName", "ContactName", "Address", "City", "PostalCode", "Country", "Phone"},
		rows)
}

func (g *sampleGen) categories() {
	rows := make([][]string, 0, len(categoryNames))
	for i, name := range categoryNames {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			name,
			g.faker.Sentence(6),
		})
	}
	g.write("categories.csv",
		[]string{"CategoryID", "CategoryName", "Description"},
		rows)
}

func (g *sampleGen) products(n, numSuppliers int) {
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		discontinued := "0"
		if g.faker.Int(1, 20) == 1 {
			discontinued = "1"
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			g.faker.ProductName(),
			strconv.Itoa(g.faker.Int(1, numSuppliers)),
			strconv.Itoa(g.faker.Int(1, len(categoryNames))),
			fmt.Sprintf("%d units per box", g.faker.Int(1, 48)),
			strconv.FormatFloat(g.faker.Price(2, 200), 'f', 2, 64),
			strconv.Itoa(g.faker.Int(0, 120)),
			strconv.Itoa(g.faker.Int(0, 60)),
			strconv.Itoa(g.faker.Int(0, 30)),
			discontinued,
		})
	}
	g.write("products.csv",
		[]string{"ProductID", "ProductName", "SupplierID", "CategoryID", "QuantityPerUnit", "UnitPrice", "UnitsInStock", "UnitsOnOrder", "ReorderLevel", "Discontinued"},
		rows)
}

func (g *sampleGen) shippers(n int) {
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			g.faker.Company(),
			g.faker.Phone(),
		})
	}
	g.write("shippers.csv",
		[]string{"ShipperID", "CompanyName", "Phone"},
		rows)
}

func (g *sampleGen) orders(n, numCustomers, numEmployees, numShippers int) {
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		orderDate := g.faker.DateRange(
			time.Date(1996, 7, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1998, 5, 1, 0, 0, 0, 0, time.UTC))
		shipped := ""
		if g.faker.Int(1, 10) <= 9 {
			shipped = orderDate.AddDate(0, 0, g.faker.Int(1, 21)).Format("2006-01-02")
		}
		rows = append(rows, []string{
			strconv.Itoa(10000 + i),
			g.customerID(g.faker.Int(0, numCustomers-1)),
			strconv.Itoa(g.faker.Int(1, numEmployees)),
			orderDate.Format("2006-01-02"),
			shipped,
			strconv.Itoa(g.faker.Int(1, numShippers)),
			strconv.FormatFloat(g.faker.Price(1, 400), 'f', 2, 64),
		})
	}
	g.write("orders.csv",
		[]string{"OrderID", "CustomerID", "EmployeeID", "OrderDate", "ShippedDate", "ShipVia", "Freight"},
		rows)
}

func (g *sampleGen) orderDetails(numOrders, numProducts int) {
	var rows [][]string
	for i := 1; i <= numOrders; i++ {
		lines := g.faker.Int(1, 4)
		for l := 0; l < lines; l++ {
			discount := "0"
			if g.faker.Int(1, 4) == 1 {
				discount = strconv.FormatFloat(float64(g.faker.Int(1, 5))*0.05, 'f', 2, 64)
			}
			rows = append(rows, []string{
				strconv.Itoa(10000 + i),
				strconv.Itoa(g.faker.Int(1, numProducts)),
				strconv.FormatFloat(g.faker.Price(2, 200), 'f', 2, 64),
				strconv.Itoa(g.faker.Int(1, 60)),
				discount,
			})
		}
	}
	g.write("order_details.csv",
		[]string{"OrderID", "ProductID", "UnitPrice", "Quantity", "Discount"},
		rows)
}
