package extract

import (
	"github.com/BenShieh233/inventory-sales/internal/prefix"
	"github.com/BenShieh233/inventory-sales/internal/table"

	"github.com/rs/zerolog/log"
)

// WideOptions describes the single-table export variant where every row
// carries its platform in a merchant column and the amount is derived
// from unit cost times quantity instead of a pre-computed column.
type WideOptions struct {
	MerchantField string
	SKUField      string
	DateField     string
	UnitCostField string
	QuantityField string
}

// DefaultWideOptions matches the HD/Lowes combined export.
func DefaultWideOptions() WideOptions {
	return WideOptions{
		MerchantField: "Merchant",
		SKUField:      "Vendor SKU",
		DateField:     "Order Date",
		UnitCostField: "Unit Cost",
		QuantityField: "Quantity",
	}
}

// Wide extracts sales records from a wide merchant-column table. The
// platform for each record comes from the merchant cell; rows with an
// empty merchant are dropped. Date and numeric failures degrade per row,
// same as Sales.
func Wide(tbl *table.Table, opts WideOptions, rule prefix.Rule) ([]SalesRecord, error) {
	required := []string{opts.MerchantField, opts.SKUField, opts.DateField, opts.UnitCostField, opts.QuantityField}
	for _, field := range required {
		if !tbl.HasColumn(field) {
			return nil, &SchemaError{Platform: "wide", Field: field}
		}
	}

	records := make([]SalesRecord, 0, len(tbl.Rows))
	dropped := 0
	for i, row := range tbl.Rows {
		merchant := table.AsString(row[opts.MerchantField])
		if merchant == "" {
			dropped++
			continue
		}

		date, err := table.AsDate(row[opts.DateField])
		if err != nil {
			log.Debug().
				Err(err).
				Str("merchant", merchant).
				Int("row", i+1).
				Msg("Dropping row with unparseable date")
			dropped++
			continue
		}

		unitCost, err := table.AsFloat(row[opts.UnitCostField])
		if err != nil {
			log.Debug().
				Err(err).
				Str("merchant", merchant).
				Int("row", i+1).
				Msg("Dropping row with non-numeric unit cost")
			dropped++
			continue
		}
		quantity, err := table.AsFloat(row[opts.QuantityField])
		if err != nil {
			log.Debug().
				Err(err).
				Str("merchant", merchant).
				Int("row", i+1).
				Msg("Dropping row with non-numeric quantity")
			dropped++
			continue
		}

		records = append(records, SalesRecord{
			Date:         date,
			Platform:     merchant,
			CanonicalKey: rule.Normalize(row[opts.SKUField]),
			Amount:       unitCost * quantity,
		})
	}

	log.Debug().
		Int("records", len(records)).
		Int("dropped", dropped).
		Msg("Extracted wide-table sales records")

	return records, nil
}
