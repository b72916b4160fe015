package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/BenShieh233/inventory-sales/internal/platform"
	"github.com/BenShieh233/inventory-sales/internal/prefix"
	"github.com/BenShieh233/inventory-sales/internal/table"
)

func mustTable(t *testing.T, grid [][]interface{}, opts ...table.Option) *table.Table {
	t.Helper()
	tbl, err := table.FromGrid(grid, opts...)
	if err != nil {
		t.Fatalf("FromGrid returned error: %v", err)
	}
	return tbl
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := table.AsDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestSales(t *testing.T) {
	tbl := mustTable(t, [][]interface{}{
		{"Item Number", "PO Date", "Total Amount"},
		{"HCA-10045", "2024-01-01", 10.0},
		{"NTRI-555", "2024-01-02", "25.50"},
	})
	mapping := platform.Mapping{SKUField: "Item Number", DateField: "PO Date", AmountField: "Total Amount"}
	rule := prefix.Compile(prefix.DefaultSalesPrefixes)

	records, err := Sales(tbl, mapping, "MSSales", rule)
	if err != nil {
		t.Fatalf("Sales returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.CanonicalKey != "10045" {
		t.Errorf("CanonicalKey = %q, want \"10045\"", first.CanonicalKey)
	}
	if first.Platform != "MSSales" {
		t.Errorf("Platform = %q, want \"MSSales\"", first.Platform)
	}
	if !first.Date.Equal(day(t, "2024-01-01")) {
		t.Errorf("Date = %v", first.Date)
	}
	if first.Amount != 10 {
		t.Errorf("Amount = %v, want 10", first.Amount)
	}
	if records[1].Amount != 25.5 {
		t.Errorf("string amount parsed as %v, want 25.5", records[1].Amount)
	}
}

func TestSalesMissingColumn(t *testing.T) {
	tbl := mustTable(t, [][]interface{}{
		{"Item Number", "Promotion Total Amount"},
		{"L123", 5.0},
	})
	mapping := platform.Mapping{SKUField: "Item Number", DateField: "PO Date", AmountField: "Promotion Total Amount"}
	rule := prefix.Compile(prefix.DefaultSalesPrefixes)

	records, err := Sales(tbl, mapping, "LSSales", rule)
	if err == nil {
		t.Fatal("Expected SchemaError, got nil")
	}
	if records != nil {
		t.Errorf("Expected no records, got %d", len(records))
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %T: %v", err, err)
	}
	if schemaErr.Platform != "LSSales" {
		t.Errorf("error platform = %q, want \"LSSales\"", schemaErr.Platform)
	}
	if schemaErr.Field != "PO Date" {
		t.Errorf("error field = %q, want \"PO Date\"", schemaErr.Field)
	}
}

func TestSalesDropsUnparseableDateRowsOnly(t *testing.T) {
	tbl := mustTable(t, [][]interface{}{
		{"Vendor SKU", "Order Date", "Sales"},
		{"W-100", "2024-03-01", 1.0},
		{"W-200", "not a date", 2.0},
		{"W-300", "2024-03-02", 3.0},
	})
	mapping := platform.Mapping{SKUField: "Vendor SKU", DateField: "Order Date", AmountField: "Sales"}
	rule := prefix.Compile(prefix.DefaultSalesPrefixes)

	records, err := Sales(tbl, mapping, "HDCASales", rule)
	if err != nil {
		t.Fatalf("Sales returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records after dropping bad date row, got %d", len(records))
	}
	if records[0].CanonicalKey != "100" || records[1].CanonicalKey != "300" {
		t.Errorf("kept keys = %q, %q", records[0].CanonicalKey, records[1].CanonicalKey)
	}
}

func TestSalesNonStringIdentifier(t *testing.T) {
	tbl := mustTable(t, [][]interface{}{
		{"Vendor SKU", "Order Date", "Sales"},
		{12345, "2024-03-01", 9.0},
	})
	mapping := platform.Mapping{SKUField: "Vendor SKU", DateField: "Order Date", AmountField: "Sales"}
	rule := prefix.Compile(prefix.DefaultSalesPrefixes)

	records, err := Sales(tbl, mapping, "HDTriSales", rule)
	if err != nil {
		t.Fatalf("Sales returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	// Degrades to an empty key rather than failing; never joins.
	if records[0].CanonicalKey != "" {
		t.Errorf("CanonicalKey = %q, want empty", records[0].CanonicalKey)
	}
}

func TestInventory(t *testing.T) {
	tbl := mustTable(t, [][]interface{}{
		{"SKU", "Standard_QoH"},
		{"V100", 12.0},
		{"W-100", "30"},
		{"V100", 5.0},   // duplicate key
		{nil, 9.0},      // non-string SKU
		{"AMZ-V7", nil}, // missing quantity reads as zero
	})
	rule := prefix.Compile(prefix.DefaultInventoryPrefixes)

	records, err := Inventory(tbl, "SKU", "Standard_QoH", rule)
	if err != nil {
		t.Fatalf("Inventory returned error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(records))
	}
	if records[0].CanonicalKey != "100" || records[0].QuantityOnHand != 12 {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].QuantityOnHand != 30 {
		t.Errorf("string quantity parsed as %v", records[1].QuantityOnHand)
	}
	if records[3].CanonicalKey != "" {
		t.Errorf("non-string SKU key = %q, want empty", records[3].CanonicalKey)
	}
	if records[4].QuantityOnHand != 0 {
		t.Errorf("missing quantity = %v, want 0", records[4].QuantityOnHand)
	}

	keys := Keys(records)
	// Deduplicated, first-seen order, empty key excluded.
	want := []string{"100", "7"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestInventoryMissingColumn(t *testing.T) {
	tbl := mustTable(t, [][]interface{}{
		{"SKU"},
		{"V100"},
	})
	rule := prefix.Compile(prefix.DefaultInventoryPrefixes)

	_, err := Inventory(tbl, "SKU", "Standard_QoH", rule)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	if schemaErr.Field != "Standard_QoH" {
		t.Errorf("error field = %q", schemaErr.Field)
	}
}

func TestForKey(t *testing.T) {
	records := []InventoryRecord{
		{RawSKU: "V100", CanonicalKey: "100", QuantityOnHand: 12},
		{RawSKU: "W-100", CanonicalKey: "100", QuantityOnHand: 3},
		{RawSKU: "V200", CanonicalKey: "200", QuantityOnHand: 1},
		{RawSKU: "??", CanonicalKey: "", QuantityOnHand: 9},
	}

	held := ForKey(records, "100")
	if len(held) != 2 {
		t.Fatalf("ForKey(100) returned %d rows, want 2", len(held))
	}

	// An empty key must never match, even when records carry empty keys.
	if got := ForKey(records, ""); got != nil {
		t.Errorf("ForKey(\"\") = %v, want nil", got)
	}
}

func TestWide(t *testing.T) {
	tbl := mustTable(t, [][]interface{}{
		{"banner"},
		{""},
		{""},
		{""},
		{"Merchant", "Vendor SKU", "Order Date", "Unit Cost", "Quantity"},
		{"HomeDepot", "HCA-10045", "2024-01-01", 10.0, 3.0},
		{"Lowes", "W-77", "2024-01-02", "2.50", "4"},
		{"", "W-88", "2024-01-03", 1.0, 1.0}, // no merchant, dropped
	}, table.SkipRows(4))
	rule := prefix.Compile(prefix.DefaultSalesPrefixes)

	records, err := Wide(tbl, DefaultWideOptions(), rule)
	if err != nil {
		t.Fatalf("Wide returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Platform != "HomeDepot" || records[0].Amount != 30 {
		t.Errorf("record 0 = %+v, want HomeDepot amount 30", records[0])
	}
	if records[1].Platform != "Lowes" || records[1].Amount != 10 {
		t.Errorf("record 1 = %+v, want Lowes amount 10", records[1])
	}
	if records[0].CanonicalKey != "10045" {
		t.Errorf("CanonicalKey = %q, want \"10045\"", records[0].CanonicalKey)
	}
}

func TestWideMissingColumn(t *testing.T) {
	tbl := mustTable(t, [][]interface{}{
		{"Merchant", "Vendor SKU", "Order Date", "Quantity"},
		{"HD", "W-1", "2024-01-01", 1.0},
	})
	rule := prefix.Compile(prefix.DefaultSalesPrefixes)

	_, err := Wide(tbl, DefaultWideOptions(), rule)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	if schemaErr.Field != "Unit Cost" {
		t.Errorf("error field = %q, want \"Unit Cost\"", schemaErr.Field)
	}
}
