// Package export hands result tables off to whatever renders or inspects
// them: CSV files, a SQLite database, or a spreadsheet tab.
package export

import (
	"fmt"

	"github.com/BenShieh233/inventory-sales/internal/aggregate"
	"github.com/BenShieh233/inventory-sales/internal/extract"
)

// Table is a named result table in hand-off shape.
type Table struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

const dayFormat = "2006-01-02"

// SeriesTable shapes date-grouped rows into a (date, platform, amount)
// table for line charts.
func SeriesTable(name string, rows []aggregate.Row) Table {
	t := Table{Name: name, Header: []string{"Order Date", "Platform", "Sales Amount"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []interface{}{row.Date.Format(dayFormat), row.Platform, row.Amount})
	}
	return t
}

// RankingTable shapes ranked key-grouped rows, adding the 1-indexed rank
// the window starts at.
func RankingTable(name string, rows []aggregate.Row, firstRank int) Table {
	t := Table{Name: name, Header: []string{"Rank", "Canonical SKU", "Platform", "Sales Amount"}}
	for i, row := range rows {
		t.Rows = append(t.Rows, []interface{}{firstRank + i, row.CanonicalKey, row.Platform, row.Amount})
	}
	return t
}

// SharesTable shapes per-platform shares for a pie view.
func SharesTable(name string, shares []aggregate.Share) Table {
	t := Table{Name: name, Header: []string{"Platform", "Sales Amount", "Percent"}}
	for _, s := range shares {
		t.Rows = append(t.Rows, []interface{}{s.Platform, s.Amount, fmt.Sprintf("%.2f", s.Percent)})
	}
	return t
}

// RecordsTable shapes normalized sales records for a data grid.
func RecordsTable(name string, records []extract.SalesRecord) Table {
	t := Table{Name: name, Header: []string{"Order Date", "Platform", "Canonical SKU", "Sales Amount"}}
	for _, rec := range records {
		t.Rows = append(t.Rows, []interface{}{rec.Date.Format(dayFormat), rec.Platform, rec.CanonicalKey, rec.Amount})
	}
	return t
}

// InventoryTable shapes inventory rows for a selected key.
func InventoryTable(name string, records []extract.InventoryRecord) Table {
	t := Table{Name: name, Header: []string{"SKU", "Canonical SKU", "Quantity On Hand"}}
	for _, rec := range records {
		t.Rows = append(t.Rows, []interface{}{rec.RawSKU, rec.CanonicalKey, rec.QuantityOnHand})
	}
	return t
}

// cell renders a single value for text sinks. Table builders pre-format
// dates, so only strings, numbers, and rank integers arrive here.
func cell(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return fmt.Sprintf("%g", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}
