package extract

import (
	"github.com/BenShieh233/inventory-sales/internal/prefix"
	"github.com/BenShieh233/inventory-sales/internal/table"

	"github.com/rs/zerolog/log"
)

// InventoryRecord is one inventory row with its derived canonical key.
// The raw identifier is kept for display; joins use the canonical key only.
type InventoryRecord struct {
	RawSKU         string
	CanonicalKey   string
	QuantityOnHand float64
}

// Inventory extracts inventory records from the stock table. Both columns
// must exist or the extraction fails with a SchemaError. A missing or
// non-numeric quantity cell reads as zero on hand rather than dropping
// the row, so the SKU still appears in key lists.
func Inventory(tbl *table.Table, skuField, quantityField string, rule prefix.Rule) ([]InventoryRecord, error) {
	for _, field := range []string{skuField, quantityField} {
		if !tbl.HasColumn(field) {
			return nil, &SchemaError{Platform: "inventory", Field: field}
		}
	}

	records := make([]InventoryRecord, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		qty, err := table.AsFloat(row[quantityField])
		if err != nil {
			qty = 0
		}
		records = append(records, InventoryRecord{
			RawSKU:         table.AsString(row[skuField]),
			CanonicalKey:   rule.Normalize(row[skuField]),
			QuantityOnHand: qty,
		})
	}

	log.Debug().
		Int("records", len(records)).
		Msg("Extracted inventory records")

	return records, nil
}

// Keys returns the distinct non-empty canonical keys in first-seen order.
// Empty keys come from non-string identifiers and never participate in
// joins, so they are excluded here.
func Keys(records []InventoryRecord) []string {
	seen := make(map[string]bool, len(records))
	var keys []string
	for _, rec := range records {
		if rec.CanonicalKey == "" || seen[rec.CanonicalKey] {
			continue
		}
		seen[rec.CanonicalKey] = true
		keys = append(keys, rec.CanonicalKey)
	}
	return keys
}

// ForKey returns the inventory rows whose canonical key matches. An empty
// key matches nothing.
func ForKey(records []InventoryRecord, key string) []InventoryRecord {
	if key == "" {
		return nil
	}
	var out []InventoryRecord
	for _, rec := range records {
		if rec.CanonicalKey == key {
			out = append(out, rec)
		}
	}
	return out
}
