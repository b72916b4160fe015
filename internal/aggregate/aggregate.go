// Package aggregate filters and groups normalized sales records and shapes
// the grouped sums into renderer-ready tables.
package aggregate

import (
	"time"

	"github.com/BenShieh233/inventory-sales/internal/extract"

	"github.com/rs/zerolog/log"
)

// AllPlatforms is the synthetic label attached to date-grouped totals so
// an aggregate series can overlay per-platform series without colliding
// with any real platform name.
const AllPlatforms = "All Platforms"

// GroupBy selects the grouping granularity for Sum.
type GroupBy int

const (
	// ByDate groups on calendar day across all platforms; output rows
	// carry the AllPlatforms label.
	ByDate GroupBy = iota
	// ByDatePlatform groups on (day, platform).
	ByDatePlatform
	// ByKeyPlatform groups on (canonical key, platform).
	ByKeyPlatform
)

// Filter narrows the record pool before grouping. Zero-valued fields are
// no-ops; supplied fields apply conjunctively.
type Filter struct {
	CanonicalKey string
	Start        time.Time
	End          time.Time
	Platforms    map[string]bool
}

func (f Filter) match(rec extract.SalesRecord) bool {
	if f.CanonicalKey != "" && rec.CanonicalKey != f.CanonicalKey {
		return false
	}
	if !f.Start.IsZero() && rec.Date.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && rec.Date.After(f.End) {
		return false
	}
	if f.Platforms != nil && !f.Platforms[rec.Platform] {
		return false
	}
	return true
}

// Row is one grouped sum. Fields not part of the grouping stay zero.
type Row struct {
	Date         time.Time
	Platform     string
	CanonicalKey string
	Amount       float64
}

// groupKey identifies one group. A struct key keeps groups distinct even
// when platform or canonical-key names contain separator characters.
type groupKey struct {
	day   string
	label string
	key   string
}

const dayKey = "2006-01-02"

// Sum filters records and sums amounts per group. Output rows appear in
// first-encounter order of their group within the input, which keeps runs
// deterministic without promising any particular sort.
func Sum(records []extract.SalesRecord, filter Filter, groupBy GroupBy) []Row {
	index := make(map[groupKey]int)
	var rows []Row

	kept := 0
	for _, rec := range records {
		if !filter.match(rec) {
			continue
		}
		kept++

		var key groupKey
		var row Row
		switch groupBy {
		case ByDate:
			key = groupKey{day: rec.Date.Format(dayKey)}
			row = Row{Date: rec.Date, Platform: AllPlatforms}
		case ByDatePlatform:
			key = groupKey{day: rec.Date.Format(dayKey), label: rec.Platform}
			row = Row{Date: rec.Date, Platform: rec.Platform}
		case ByKeyPlatform:
			key = groupKey{key: rec.CanonicalKey, label: rec.Platform}
			row = Row{CanonicalKey: rec.CanonicalKey, Platform: rec.Platform}
		}

		if i, ok := index[key]; ok {
			rows[i].Amount += rec.Amount
		} else {
			row.Amount = rec.Amount
			index[key] = len(rows)
			rows = append(rows, row)
		}
	}

	log.Debug().
		Int("records", len(records)).
		Int("kept", kept).
		Int("groups", len(rows)).
		Msg("Aggregated sales records")

	return rows
}

// Labels returns the distinct platform labels in first-encounter order.
// That order governs chart legend and line-continuity consistency, so it
// is deliberately not re-sorted.
func Labels(rows []Row) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, row := range rows {
		if row.Platform == "" || seen[row.Platform] {
			continue
		}
		seen[row.Platform] = true
		labels = append(labels, row.Platform)
	}
	return labels
}
