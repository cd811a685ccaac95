package transform

import (
	"context"
	"testing"
)

func TestTotalSales(t *testing.T) {
	tests := []struct {
		quantity  int
		unitPrice float64
		discount  float64
		want      float64
	}{
		{10, 20.0, 0.1, 180.00},
		{12, 18.00, 0, 216.00},
		{10, 19.00, 0.25, 142.50},
		{3, 0.10, 0.15, 0.26}, // rounds half away from zero: 0.255 -> 0.26
		{0, 18.00, 0, 0},
	}
	for _, tt := range tests {
		if got := totalSales(tt.quantity, tt.unitPrice, tt.discount); got != tt.want {
			t.Errorf("totalSales(%d, %v, %v) = %v, want %v",
				tt.quantity, tt.unitPrice, tt.discount, got, tt.want)
		}
	}
}

func TestBuildFactRevenueAndKeys(t *testing.T) {
	batch, err := All(context.Background(), sourceFixture(t))
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	fact := batch.FactSales

	// First line: order 100, product 1, 12 x 18.00, no discount.
	if fact.Value(0, "order_id") != 100 {
		t.Errorf("order_id = %v, want 100", fact.Value(0, "order_id"))
	}
	if fact.Value(0, "total_sales") != 216.00 {
		t.Errorf("total_sales = %v, want 216.00", fact.Value(0, "total_sales"))
	}
	// revenue is defined identically to total_sales.
	if fact.Value(0, "revenue") != fact.Value(0, "total_sales") {
		t.Errorf("revenue = %v, total_sales = %v; want equal",
			fact.Value(0, "revenue"), fact.Value(0, "total_sales"))
	}
	if fact.Value(0, "date_key") != 19970704 {
		t.Errorf("date_key = %v, want 19970704", fact.Value(0, "date_key"))
	}
	if fact.Value(0, "freight") != 32.38 {
		t.Errorf("freight = %v, want 32.38", fact.Value(0, "freight"))
	}

	// Second line of order 100 carries the discount.
	if fact.Value(1, "total_sales") != 142.50 {
		t.Errorf("total_sales = %v, want 142.50", fact.Value(1, "total_sales"))
	}

	// Order id repeats across lines of the same order.
	if fact.Value(1, "order_id") != 100 {
		t.Errorf("order_id = %v, want 100", fact.Value(1, "order_id"))
	}
}

func TestBuildFactDropsUnresolvedRows(t *testing.T) {
	raw := sourceFixture(t)
	// Point one order at a customer that has no dimension row.
	raw["orders"] = makeTable(t,
		[]string{"OrderID", "CustomerID", "EmployeeID", "OrderDate", "ShippedDate", "ShipVia", "Freight"},
		[]any{"100", "ALFKI", "1", "1997-07-04", "1997-07-16", "1", "32.38"},
		[]any{"101", "NOPE!", "2", "1997-07-05", "1997-07-10", "1", "11.61"},
		[]any{"102", "ANTON", "2", "1997-07-06", "", "1", "65.83"},
	)

	batch, err := All(context.Background(), raw)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	// Order 101 had two lines; the customer gate fires first for both,
	// so the product-99 line never reaches the product lookup.
	if batch.Stats.DroppedBy["customer_key"] != 2 {
		t.Errorf("DroppedBy[customer_key] = %d, want 2", batch.Stats.DroppedBy["customer_key"])
	}
	if batch.FactSales.NumRows() != 3 {
		t.Errorf("fact rows = %d, want 3", batch.FactSales.NumRows())
	}
	if batch.Stats.FactInput != 5 || batch.Stats.FactDropped != 2 {
		t.Errorf("Stats = %+v, want input 5 dropped 2", batch.Stats)
	}
	assertFactIntegrity(t, batch)
}

func TestBuildFactDropsUnparseableOrderDate(t *testing.T) {
	raw := sourceFixture(t)
	raw["orders"] = makeTable(t,
		[]string{"OrderID", "CustomerID", "EmployeeID", "OrderDate", "ShippedDate", "ShipVia", "Freight"},
		[]any{"100", "ALFKI", "1", "1997-07-04", "1997-07-16", "1", "32.38"},
		[]any{"101", "ANATR", "2", "garbage", "1997-07-10", "1", "11.61"},
		[]any{"102", "ANTON", "2", "1997-07-06", "", "1", "65.83"},
	)

	batch, err := All(context.Background(), raw)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	// Order 101 had two lines. The product-99 line dies at the product
	// gate before the date lookup runs; the other line reaches the date
	// gate and fails there.
	if batch.Stats.DroppedBy["product_key"] != 1 {
		t.Errorf("DroppedBy[product_key] = %d, want 1", batch.Stats.DroppedBy["product_key"])
	}
	if batch.Stats.DroppedBy["date_key"] != 1 {
		t.Errorf("DroppedBy[date_key] = %d, want 1", batch.Stats.DroppedBy["date_key"])
	}
	if batch.FactSales.NumRows() != 3 {
		t.Errorf("fact rows = %d, want 3", batch.FactSales.NumRows())
	}
	assertFactIntegrity(t, batch)
}

func TestBuildFactOrdersWithoutLinesVanish(t *testing.T) {
	raw := sourceFixture(t)
	raw["order_details"] = makeTable(t,
		[]string{"OrderID", "ProductID", "UnitPrice", "Quantity", "Discount"},
		[]any{"100", "1", "18.00", "12", "0"},
	)

	batch, err := All(context.Background(), raw)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	// Orders 101 and 102 have no lines; the detail table drives the join.
	if batch.FactSales.NumRows() != 1 {
		t.Errorf("fact rows = %d, want 1", batch.FactSales.NumRows())
	}
}
