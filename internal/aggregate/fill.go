package aggregate

import (
	"time"

	"github.com/BenShieh233/inventory-sales/internal/table"

	"github.com/rs/zerolog/log"
)

// Fill reindexes date-grouped rows onto the full cartesian product of
// every calendar day in [start, end] and every label, inserting zero rows
// for absent combinations. Output is ascending by day with the given label
// order preserved within each day. An inverted range yields no rows.
func Fill(rows []Row, start, end time.Time, labels []string) []Row {
	start = table.Day(start)
	end = table.Day(end)
	if start.After(end) {
		return nil
	}

	amounts := make(map[groupKey]float64, len(rows))
	for _, row := range rows {
		amounts[groupKey{day: row.Date.Format(dayKey), label: row.Platform}] = row.Amount
	}

	days := int(end.Sub(start).Hours()/24) + 1
	out := make([]Row, 0, days*len(labels))
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, label := range labels {
			out = append(out, Row{
				Date:     day,
				Platform: label,
				Amount:   amounts[groupKey{day: day.Format(dayKey), label: label}],
			})
		}
	}

	log.Debug().
		Int("days", days).
		Int("labels", len(labels)).
		Int("rows", len(out)).
		Msg("Filled time series")

	return out
}
