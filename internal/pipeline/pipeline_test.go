package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeDB struct {
	execs []string
	args  [][]any
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	f.args = append(f.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not supported by fake")
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported by fake")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

var sourceFiles = map[string]string{
	"orders.csv": "OrderID,CustomerID,EmployeeID,OrderDate,ShippedDate,ShipVia,Freight\n" +
		"100,ALFKI,1,1997-07-04,1997-07-16,1,32.38\n" +
		"101,ANATR,1,1997-07-05,,1,11.61\n",
	"order_details.csv": "OrderID,ProductID,UnitPrice,Quantity,Discount\n" +
		"100,1,18.00,12,0\n" +
		"100,2,19.00,10,0.25\n" +
		"101,99,5.00,3,0\n", // dangling product id
	"products.csv": "ProductID,ProductName,SupplierID,CategoryID,QuantityPerUnit,UnitPrice,UnitsInStock,UnitsOnOrder,ReorderLevel,Discontinued\n" +
		"1,Chai,1,1,10 boxes,18.00,39,0,10,0\n" +
		"2,Chang,1,1,24 bottles,19.00,17,40,25,0\n",
	"categories.csv": "CategoryID,CategoryName,Description\n1,Beverages,Soft drinks\n",
	"customers.csv": "CustomerID,CompanyName,ContactName,ContactTitle,Address,City,Region,PostalCode,Country,Phone,Fax\n" +
		"ALFKI,Alfreds Futterkiste,Maria Anders,Sales Representative,Obere Str. 57,Berlin,,12209,Germany,030-0074321,\n" +
		"ANATR,Ana Trujillo,Ana Trujillo,Owner,Avda. Constitución,México D.F.,CA,05021,Mexico,(5) 555-4729,\n",
	"employees.csv": "EmployeeID,LastName,FirstName,Title,BirthDate,HireDate,Address,City,Country,ReportsTo\n" +
		"1,Fuller,Andrew,VP Sales,1952-02-19,1992-08-14,908 W. Capital Way,Tacoma,USA,\n",
	"shippers.csv":  "ShipperID,CompanyName,Phone\n1,Speedy Express,(503) 555-9831\n",
	"suppliers.csv": "SupplierID,CompanyName,ContactName,Country,Phone\n1,Exotic Liquids,Charlotte Cooper,UK,(171) 555-2222\n",
}

func writeSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range sourceFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunEndToEnd(t *testing.T) {
	dir := writeSources(t)
	fake := &fakeDB{}

	result, err := Run(context.Background(), fake, dir, "northwind_dw")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.SourceRows["orders"] != 2 {
		t.Errorf("orders extracted = %d, want 2", result.SourceRows["orders"])
	}
	if result.Stats.FactInput != 3 {
		t.Errorf("FactInput = %d, want 3", result.Stats.FactInput)
	}
	if result.Stats.FactResolved != 2 {
		t.Errorf("FactResolved = %d, want 2", result.Stats.FactResolved)
	}
	if result.Stats.DroppedBy["product_key"] != 1 {
		t.Errorf("DroppedBy[product_key] = %d, want 1", result.Stats.DroppedBy["product_key"])
	}

	if failed := result.Load.Failed(); len(failed) != 0 {
		t.Errorf("load failures: %+v", failed)
	}

	// Fact insert runs last.
	var last string
	for _, sql := range fake.execs {
		last = sql
	}
	if !strings.Contains(last, `"fact_sales"`) {
		t.Errorf("last insert = %q, want fact_sales", last)
	}
}

func TestRunAbortsOnMissingSource(t *testing.T) {
	dir := writeSources(t)
	if err := os.Remove(filepath.Join(dir, "suppliers.csv")); err != nil {
		t.Fatal(err)
	}
	fake := &fakeDB{}

	_, err := Run(context.Background(), fake, dir, "northwind_dw")
	if err == nil {
		t.Fatal("Expected error for missing source file, got nil")
	}
	if len(fake.execs) != 0 {
		t.Errorf("No load work should happen after a failed extraction; got %d execs", len(fake.execs))
	}
}
