package load

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/northwind-dw/etl/internal/table"
	"github.com/northwind-dw/etl/internal/transform"
	"github.com/northwind-dw/etl/internal/warehouse"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB records Exec calls and can be told to fail loads of a table.
type fakeDB struct {
	execs  []execCall
	failOn string
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("relation does not match")
	}
	f.execs = append(f.execs, execCall{sql: sql, args: args})
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

// rowsInserted counts the rows the fake received for one table.
func (f *fakeDB) rowsInserted(tableName string, numCols int) int {
	rows := 0
	for _, c := range f.execs {
		if strings.Contains(c.sql, `"`+tableName+`"`) {
			rows += len(c.args) / numCols
		}
	}
	return rows
}

func fixtureBatch(t *testing.T) *transform.Batch {
	t.Helper()

	fill := func(spec warehouse.TableSpec, n int) *table.Table {
		tbl := table.New(spec.Columns...)
		for i := 0; i < n; i++ {
			row := make([]any, len(spec.Columns))
			row[0] = i + 1
			for j := 1; j < len(row); j++ {
				row[j] = "x"
			}
			if err := tbl.Append(row); err != nil {
				t.Fatal(err)
			}
		}
		return tbl
	}

	specs := make(map[string]warehouse.TableSpec, len(warehouse.LoadOrder))
	for _, s := range warehouse.LoadOrder {
		specs[s.Name] = s
	}

	return &transform.Batch{
		DimDate:     fill(specs["dim_date"], 3),
		DimShipper:  fill(specs["dim_shipper"], 1),
		DimCustomer: fill(specs["dim_customer"], 3),
		DimEmployee: fill(specs["dim_employee"], 2),
		DimProduct:  fill(specs["dim_product"], 2),
		FactSales:   fill(specs["fact_sales"], 4),
	}
}

func TestLoadOrderDimensionsBeforeFact(t *testing.T) {
	fake := &fakeDB{}
	loader := New(fake, "northwind_dw")

	report := loader.Load(context.Background(), fixtureBatch(t))
	if failed := report.Failed(); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	var order []string
	for _, c := range fake.execs {
		for _, spec := range warehouse.LoadOrder {
			if strings.Contains(c.sql, `"`+spec.Name+`"`) {
				order = append(order, spec.Name)
			}
		}
	}
	if len(order) == 0 {
		t.Fatal("no inserts recorded")
	}
	if order[0] != "dim_date" {
		t.Errorf("first insert = %s, want dim_date", order[0])
	}
	if order[len(order)-1] != "fact_sales" {
		t.Errorf("last insert = %s, want fact_sales", order[len(order)-1])
	}
	for i, name := range order[:len(order)-1] {
		if name == "fact_sales" && i != len(order)-1 {
			t.Error("fact_sales loaded before a dimension")
		}
	}
}

func TestLoadSkipsEmptyTables(t *testing.T) {
	fake := &fakeDB{}
	loader := New(fake, "northwind_dw")

	batch := fixtureBatch(t)
	batch.FactSales = table.New("order_id")

	report := loader.Load(context.Background(), batch)

	var factResult *TableResult
	for i := range report.Tables {
		if report.Tables[i].Name == "fact_sales" {
			factResult = &report.Tables[i]
		}
	}
	if factResult == nil {
		t.Fatal("fact_sales missing from report")
	}
	if !factResult.Skipped || factResult.Err != nil {
		t.Errorf("fact result = %+v, want skipped without error", factResult)
	}
	if fake.rowsInserted("dim_customer", 12) != 3 {
		t.Error("dimensions should still load when the fact table is empty")
	}
}

func TestLoadPerTableFailureDoesNotAbort(t *testing.T) {
	fake := &fakeDB{failOn: `"dim_customer"`}
	loader := New(fake, "northwind_dw")

	report := loader.Load(context.Background(), fixtureBatch(t))

	failed := report.Failed()
	if len(failed) != 1 || failed[0].Name != "dim_customer" {
		t.Fatalf("Failed() = %+v, want only dim_customer", failed)
	}
	if report.AllFailed() {
		t.Error("AllFailed() = true with five tables loaded")
	}
	// Later tables still loaded.
	if fake.rowsInserted("fact_sales", 12) != 4 {
		t.Errorf("fact rows = %d, want 4 despite dim_customer failure",
			fake.rowsInserted("fact_sales", 12))
	}
}

func TestLoadRerunWithoutCleanupDoublesRows(t *testing.T) {
	fake := &fakeDB{}
	loader := New(fake, "northwind_dw")
	batch := fixtureBatch(t)

	first := loader.Load(context.Background(), batch)
	second := loader.Load(context.Background(), batch)
	if len(first.Failed())+len(second.Failed()) != 0 {
		t.Fatal("unexpected load failures")
	}

	// Append-only semantics: loading the same batch twice into an
	// untruncated destination doubles the fact rows. Expected behavior,
	// not a bug.
	if got := fake.rowsInserted("fact_sales", 12); got != 8 {
		t.Errorf("fact rows after rerun = %d, want 8", got)
	}
	if got := fake.rowsInserted("dim_customer", 12); got != 6 {
		t.Errorf("dim_customer rows after rerun = %d, want 6", got)
	}
}

func TestLoadBatchSplitting(t *testing.T) {
	fake := &fakeDB{}
	loader := New(fake, "northwind_dw")
	loader.batchSize = 2

	report := loader.Load(context.Background(), fixtureBatch(t))
	if failed := report.Failed(); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	// 4 fact rows with batch size 2 means two INSERT statements.
	inserts := 0
	for _, c := range fake.execs {
		if strings.Contains(c.sql, `"fact_sales"`) {
			inserts++
		}
	}
	if inserts != 2 {
		t.Errorf("fact INSERT statements = %d, want 2", inserts)
	}
	if report.RowsLoaded() != 3+1+3+2+2+4 {
		t.Errorf("RowsLoaded = %d, want 15", report.RowsLoaded())
	}
}

func TestLoadMissingColumnIsTableError(t *testing.T) {
	fake := &fakeDB{}
	loader := New(fake, "northwind_dw")

	batch := fixtureBatch(t)
	short := table.New("shipper_key", "company_name") // missing columns
	if err := short.Append([]any{1, "Speedy Express"}); err != nil {
		t.Fatal(err)
	}
	batch.DimShipper = short

	report := loader.Load(context.Background(), batch)
	failed := report.Failed()
	if len(failed) != 1 || failed[0].Name != "dim_shipper" {
		t.Fatalf("Failed() = %+v, want only dim_shipper", failed)
	}
	if fake.rowsInserted("fact_sales", 12) != 4 {
		t.Error("other tables should load despite dim_shipper schema mismatch")
	}
}
