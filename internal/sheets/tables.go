package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/BenShieh233/inventory-sales/internal/retry"
	"github.com/BenShieh233/inventory-sales/internal/table"

	"github.com/rs/zerolog/log"
)

// readRetry covers transient Sheets API failures on the read path.
var readRetry = retry.Config{
	MaxRetries: 3,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
	Timeout:    15 * time.Second,
}

// LoadTable reads one tab as a Table. The whole used range is fetched;
// the first row is treated as the header unless a skip option says
// otherwise.
func (c *Client) LoadTable(ctx context.Context, spreadsheetID, sheetName string, opts ...table.Option) (*table.Table, error) {
	readRange := fmt.Sprintf("%s!A1:Z10000", sheetName)

	grid, err := retry.WithRetry(ctx, readRetry, func(ctx context.Context) ([][]interface{}, error) {
		return c.ReadSheet(ctx, spreadsheetID, readRange)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sheet %s: %w", sheetName, err)
	}

	tbl, err := table.FromGrid(grid, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheetName, err)
	}

	log.Debug().
		Str("sheet", sheetName).
		Int("rows", len(tbl.Rows)).
		Msg("Loaded sheet table")

	return tbl, nil
}

// WriteTable replaces a results tab's contents with a header row followed
// by the given rows.
func (c *Client) WriteTable(ctx context.Context, spreadsheetID, sheetName string, header []string, rows [][]interface{}) error {
	values := make([][]interface{}, 0, len(rows)+1)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	values = append(values, rows...)

	writeRange := fmt.Sprintf("%s!A1", sheetName)
	if err := c.UpdateRange(ctx, spreadsheetID, writeRange, values); err != nil {
		return fmt.Errorf("failed to write results to %s: %w", sheetName, err)
	}

	log.Info().
		Str("sheet", sheetName).
		Int("rows", len(rows)).
		Msg("Wrote result table to sheet")

	return nil
}

// AppendTable adds result rows below the tab's existing contents, leaving
// any header row in place. Used when runs accumulate instead of replacing
// the tab.
func (c *Client) AppendTable(ctx context.Context, spreadsheetID, sheetName string, rows [][]interface{}) error {
	appendRange := fmt.Sprintf("%s!A1", sheetName)
	if err := c.AppendRows(ctx, spreadsheetID, appendRange, rows); err != nil {
		return fmt.Errorf("failed to append results to %s: %w", sheetName, err)
	}

	log.Info().
		Str("sheet", sheetName).
		Int("rows", len(rows)).
		Msg("Appended result rows to sheet")

	return nil
}
