package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// RawRow maps a column name to the cell value for one row. Values are
// whatever the source handed us: string, float64, int, or time.Time.
type RawRow map[string]interface{}

// Table is one sheet's worth of rows under a fixed header.
type Table struct {
	Columns []string
	Rows    []RawRow
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Option adjusts how a raw grid is interpreted.
type Option func(*gridConfig)

type gridConfig struct {
	skipRows int
}

// SkipRows drops n leading rows before the header row. Some exports
// carry report banners above the real header.
func SkipRows(n int) Option {
	return func(c *gridConfig) {
		c.skipRows = n
	}
}

// FromGrid builds a Table from sheet-shaped data: the first row (after any
// skipped leading rows) is the header, every following row is data. Short
// rows are padded with nil so every RawRow has an entry per column.
func FromGrid(grid [][]interface{}, opts ...Option) (*Table, error) {
	var cfg gridConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.skipRows > 0 {
		if cfg.skipRows >= len(grid) {
			return nil, fmt.Errorf("grid has %d rows, cannot skip %d", len(grid), cfg.skipRows)
		}
		grid = grid[cfg.skipRows:]
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("grid has no header row")
	}

	columns := make([]string, 0, len(grid[0]))
	for _, cell := range grid[0] {
		columns = append(columns, strings.TrimSpace(AsString(cell)))
	}

	rows := make([]RawRow, 0, len(grid)-1)
	for _, raw := range grid[1:] {
		row := make(RawRow, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}

	log.Debug().
		Int("columns", len(columns)).
		Int("rows", len(rows)).
		Msg("Built table from grid")

	return &Table{Columns: columns, Rows: rows}, nil
}

// AsString renders a cell as text. Nil cells render as "".
func AsString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// AsFloat coerces a cell to a number. Strings are parsed after stripping
// currency symbols and thousands separators; anything else yields an error.
func AsFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return parseNumber(n)
	case nil:
		return 0, fmt.Errorf("empty cell")
	default:
		return 0, fmt.Errorf("cell %v (%T) is not numeric", v, v)
	}
}

func parseNumber(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty cell")
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("cell %q is not numeric: %w", s, err)
	}
	return f, nil
}

// dateLayouts covers the formats seen across platform exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
	time.RFC3339,
}

// AsDate coerces a cell to a calendar day in UTC. Time-of-day components
// are discarded so grouping happens at day granularity.
func AsDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return Day(d), nil
	case string:
		trimmed := strings.TrimSpace(d)
		if trimmed == "" {
			return time.Time{}, fmt.Errorf("empty date cell")
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return Day(t), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", d)
	case nil:
		return time.Time{}, fmt.Errorf("empty date cell")
	default:
		return time.Time{}, fmt.Errorf("cell %v (%T) is not a date", v, v)
	}
}

// Day truncates a timestamp to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
