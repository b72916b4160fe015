// Package extract turns raw platform tables into normalized sales and
// inventory records keyed by canonical SKU.
package extract

import (
	"fmt"
	"time"

	"github.com/BenShieh233/inventory-sales/internal/platform"
	"github.com/BenShieh233/inventory-sales/internal/prefix"
	"github.com/BenShieh233/inventory-sales/internal/table"

	"github.com/rs/zerolog/log"
)

// SalesRecord is one order line normalized to the common shape.
type SalesRecord struct {
	Date         time.Time
	Platform     string
	CanonicalKey string
	Amount       float64
}

// SchemaError reports a required column missing from one platform's table.
// It is fatal to that platform's extraction only; sibling platforms proceed.
type SchemaError struct {
	Platform string
	Field    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("platform %s: missing required column %q", e.Platform, e.Field)
}

// Sales extracts normalized records from one platform's table.
//
// All three mapped columns must exist in the header or the whole platform
// fails with a SchemaError. Rows whose date cell does not parse are
// dropped individually; rows with a non-string identifier keep flowing
// with an empty canonical key, which no join will ever match.
func Sales(tbl *table.Table, mapping platform.Mapping, platformName string, rule prefix.Rule) ([]SalesRecord, error) {
	for _, field := range []string{mapping.SKUField, mapping.DateField, mapping.AmountField} {
		if !tbl.HasColumn(field) {
			return nil, &SchemaError{Platform: platformName, Field: field}
		}
	}

	records := make([]SalesRecord, 0, len(tbl.Rows))
	dropped := 0
	for i, row := range tbl.Rows {
		date, err := table.AsDate(row[mapping.DateField])
		if err != nil {
			log.Debug().
				Err(err).
				Str("platform", platformName).
				Int("row", i+1).
				Msg("Dropping row with unparseable date")
			dropped++
			continue
		}

		amount, err := table.AsFloat(row[mapping.AmountField])
		if err != nil {
			log.Debug().
				Err(err).
				Str("platform", platformName).
				Int("row", i+1).
				Msg("Dropping row with non-numeric amount")
			dropped++
			continue
		}

		records = append(records, SalesRecord{
			Date:         date,
			Platform:     platformName,
			CanonicalKey: rule.Normalize(row[mapping.SKUField]),
			Amount:       amount,
		})
	}

	log.Debug().
		Str("platform", platformName).
		Int("records", len(records)).
		Int("dropped", dropped).
		Msg("Extracted sales records")

	return records, nil
}
