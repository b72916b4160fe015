package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BenShieh233/inventory-sales/internal/aggregate"
	"github.com/BenShieh233/inventory-sales/internal/app"
	"github.com/BenShieh233/inventory-sales/internal/export"
	"github.com/BenShieh233/inventory-sales/internal/extract"
	"github.com/BenShieh233/inventory-sales/internal/platform"
	"github.com/BenShieh233/inventory-sales/internal/sheets"
	"github.com/BenShieh233/inventory-sales/internal/table"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Debug().Msg("Starting pipeline run")
	setupEnvironment()

	ctx := context.Background()
	cfg := app.LoadConfig()
	params := loadParams()

	inventoryTbl, salesTables, order := loadTables(ctx, cfg)

	inventory := loadInventory(inventoryTbl, cfg)
	records := extractSales(salesTables, order, cfg)
	records = append(records, extractWide(cfg)...)

	if len(records) == 0 {
		log.Fatal().Msg("No sales records extracted from any platform")
	}

	if params.Start.IsZero() || params.End.IsZero() {
		start, end := dateBounds(records)
		if params.Start.IsZero() {
			params.Start = start
		}
		if params.End.IsZero() {
			params.End = end
		}
	}

	tables := buildViews(records, inventory, params)
	writeResults(ctx, cfg, tables)

	log.Info().
		Int("records", len(records)).
		Int("result_tables", len(tables)).
		Msg("Pipeline run complete")
}

// loadParams reads the session view parameters from the environment.
func loadParams() *app.Params {
	params := app.NewParams()
	params.SelectedKey = os.Getenv("SELECTED_SKU")

	if v := os.Getenv("PLATFORMS"); v != "" {
		for _, p := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				params.SelectedPlatforms = append(params.SelectedPlatforms, trimmed)
			}
		}
	}

	params.Start = envDate("START_DATE")
	params.End = envDate("END_DATE")
	params.SKUStart = envDate("SKU_START_DATE")
	params.SKUEnd = envDate("SKU_END_DATE")
	params.MinAmount = envFloat("MIN_SALES")
	params.MaxAmount = envFloat("MAX_SALES")
	params.SetRankWindow(envInt("RANK_START", 1), envInt("RANK_END", 10))

	return params
}

func envDate(key string) time.Time {
	value := os.Getenv(key)
	if value == "" {
		return time.Time{}
	}
	t, err := table.AsDate(value)
	if err != nil {
		log.Fatal().Err(err).Str("key", key).Msg("Invalid date in environment")
	}
	return t
}

func envFloat(key string) *float64 {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatal().Err(err).Str("key", key).Msg("Invalid number in environment")
	}
	return &f
}

func envInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatal().Err(err).Str("key", key).Msg("Invalid integer in environment")
	}
	return n
}

// loadTables reads the inventory table and one table per platform from
// whichever source is configured. The returned order preserves workbook
// or directory order so downstream label order stays stable.
func loadTables(ctx context.Context, cfg app.Config) (*table.Table, map[string]*table.Table, []string) {
	if cfg.SpreadsheetID != "" {
		return loadSheetTables(ctx, cfg)
	}
	if cfg.InventoryCSV != "" || cfg.SalesCSVDir != "" || cfg.WideCSV != "" {
		return loadCSVTables(cfg)
	}
	log.Fatal().Msg("No input configured: set SPREADSHEET_ID or INVENTORY_CSV/SALES_CSV_DIR/WIDE_CSV")
	return nil, nil, nil
}

func loadSheetTables(ctx context.Context, cfg app.Config) (*table.Table, map[string]*table.Table, []string) {
	credsFile := app.GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	client, err := sheets.NewClient(ctx, credsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	names, err := client.SheetNames(ctx, cfg.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list sheet tabs")
	}
	log.Debug().Strs("sheets", names).Msg("Found sheet tabs")

	var inventoryTbl *table.Table
	salesTables := make(map[string]*table.Table)
	var order []string

	for _, name := range names {
		if name == cfg.ResultsSheet {
			continue
		}
		tbl, err := client.LoadTable(ctx, cfg.SpreadsheetID, name)
		if err != nil {
			log.Error().Err(err).Str("sheet", name).Msg("Failed to load sheet, skipping")
			continue
		}
		if name == cfg.InventorySheet {
			inventoryTbl = tbl
			continue
		}
		salesTables[name] = tbl
		order = append(order, name)
	}

	return inventoryTbl, salesTables, order
}

func loadCSVTables(cfg app.Config) (*table.Table, map[string]*table.Table, []string) {
	var inventoryTbl *table.Table
	if cfg.InventoryCSV != "" {
		tbl, err := table.ReadCSV(cfg.InventoryCSV)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load inventory CSV")
		} else {
			inventoryTbl = tbl
		}
	}

	salesTables := make(map[string]*table.Table)
	var order []string
	if cfg.SalesCSVDir != "" {
		entries, err := os.ReadDir(cfg.SalesCSVDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.SalesCSVDir).Msg("Failed to read sales CSV directory")
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".csv")
			tbl, err := table.ReadCSV(filepath.Join(cfg.SalesCSVDir, entry.Name()))
			if err != nil {
				log.Error().Err(err).Str("platform", name).Msg("Failed to load platform CSV, skipping")
				continue
			}
			salesTables[name] = tbl
			order = append(order, name)
		}
	}

	return inventoryTbl, salesTables, order
}

// loadInventory extracts inventory records. A missing table or schema
// only costs the inventory views; sales processing continues.
func loadInventory(tbl *table.Table, cfg app.Config) []extract.InventoryRecord {
	if tbl == nil {
		log.Warn().Msg("No inventory table loaded, inventory views disabled")
		return nil
	}
	records, err := extract.Inventory(tbl, cfg.InventorySKUField, cfg.InventoryQtyField, cfg.InventoryRule)
	if err != nil {
		log.Error().Err(err).Msg("Inventory extraction failed")
		return nil
	}
	log.Info().
		Int("records", len(records)).
		Int("keys", len(extract.Keys(records))).
		Msg("Extracted inventory")
	return records
}

// extractSales runs the extractor per platform with partial-failure
// isolation: a platform with a broken schema or no mapping is reported
// and skipped, siblings proceed.
func extractSales(salesTables map[string]*table.Table, order []string, cfg app.Config) []extract.SalesRecord {
	registry := platform.DefaultRegistry()
	override := mappingOverride()

	var records []extract.SalesRecord
	for _, name := range order {
		mapping, err := registry.Resolve(name, override)
		if err != nil {
			var missing *platform.MissingMappingError
			if errors.As(err, &missing) {
				log.Error().
					Str("platform", name).
					Strs("registered", registry.Platforms()).
					Msg("No field mapping and no override, skipping platform; set OVERRIDE_*_FIELD to include it")
			} else {
				log.Error().Err(err).Str("platform", name).Msg("Failed to resolve mapping, skipping platform")
			}
			continue
		}

		platformRecords, err := extract.Sales(salesTables[name], mapping, name, cfg.SalesRule)
		if err != nil {
			log.Error().Err(err).Str("platform", name).Msg("Extraction failed, skipping platform")
			continue
		}
		records = append(records, platformRecords...)
		log.Info().
			Str("platform", name).
			Int("records", len(platformRecords)).
			Msg("Extracted platform sales")
	}
	return records
}

// mappingOverride builds the manual field mapping for unregistered
// platforms, if the caller supplied one.
func mappingOverride() *platform.Mapping {
	sku := os.Getenv("OVERRIDE_SKU_FIELD")
	date := os.Getenv("OVERRIDE_DATE_FIELD")
	amount := os.Getenv("OVERRIDE_AMOUNT_FIELD")
	if sku == "" && date == "" && amount == "" {
		return nil
	}
	return &platform.Mapping{SKUField: sku, DateField: date, AmountField: amount}
}

// extractWide loads the optional wide merchant-column export. The first
// four rows of that export are a report banner, not data.
func extractWide(cfg app.Config) []extract.SalesRecord {
	if cfg.WideCSV == "" {
		return nil
	}
	tbl, err := table.ReadCSV(cfg.WideCSV, table.SkipRows(4))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load wide sales CSV, skipping")
		return nil
	}
	records, err := extract.Wide(tbl, extract.DefaultWideOptions(), cfg.SalesRule)
	if err != nil {
		log.Error().Err(err).Msg("Wide-table extraction failed, skipping")
		return nil
	}
	log.Info().Int("records", len(records)).Msg("Extracted wide-table sales")
	return records
}

func dateBounds(records []extract.SalesRecord) (time.Time, time.Time) {
	start, end := records[0].Date, records[0].Date
	for _, rec := range records[1:] {
		if rec.Date.Before(start) {
			start = rec.Date
		}
		if rec.Date.After(end) {
			end = rec.Date
		}
	}
	return start, end
}

// buildViews runs the aggregation stages and shapes every output table.
func buildViews(records []extract.SalesRecord, inventory []extract.InventoryRecord, params *app.Params) []export.Table {
	filter := params.Filter()
	rangeFilter := filter
	rangeFilter.CanonicalKey = ""

	// Trend view: all-platform totals overlaid on per-platform series,
	// reindexed onto the full date range.
	totals := aggregate.Sum(records, rangeFilter, aggregate.ByDate)
	perPlatform := aggregate.Sum(records, rangeFilter, aggregate.ByDatePlatform)
	combined := append(totals, perPlatform...)
	filled := aggregate.Fill(combined, params.Start, params.End, aggregate.Labels(combined))

	tables := []export.Table{
		export.RecordsTable("normalized_sales", records),
		export.SeriesTable("sales_trend", filled),
		export.SharesTable("platform_shares", aggregate.Shares(perPlatform)),
	}

	// Leaderboard view.
	keyTotals := aggregate.Sum(records, rangeFilter, aggregate.ByKeyPlatform)
	ranked, err := aggregate.Rank(keyTotals, params.ValueFilter(), params.Window())
	if err != nil {
		var empty *aggregate.EmptyWindowError
		if errors.As(err, &empty) {
			log.Warn().
				Int("from", empty.N).
				Int("rows", empty.Total).
				Msg("Rank window past end of filtered rows, adjust RANK_START or the sales bounds")
		} else {
			log.Error().Err(err).Msg("Ranking failed")
		}
	} else {
		tables = append(tables, export.RankingTable("sku_ranking", ranked, params.RankStart))
	}

	// Per-key views when a SKU is selected, over their own date range.
	if params.SelectedKey != "" {
		keyStart, keyEnd := params.KeyRange()
		keyFilter := filter
		keyFilter.Start, keyFilter.End = keyStart, keyEnd

		keyRows := aggregate.Sum(records, keyFilter, aggregate.ByDatePlatform)
		keyFilled := aggregate.Fill(keyRows, keyStart, keyEnd, aggregate.Labels(keyRows))
		tables = append(tables, export.SeriesTable("sku_trend", keyFilled))

		if held := extract.ForKey(inventory, params.SelectedKey); len(held) > 0 {
			tables = append(tables, export.InventoryTable("sku_inventory", held))
		}
	}

	return tables
}

// writeResults hands every result table to the configured sinks.
func writeResults(ctx context.Context, cfg app.Config, tables []export.Table) {
	for _, t := range tables {
		if _, err := export.WriteCSV(cfg.OutputDir, t); err != nil {
			log.Error().Err(err).Str("table", t.Name).Msg("Failed to write CSV")
		}
	}

	if cfg.SQLitePath != "" {
		if err := export.WriteSQLite(cfg.SQLitePath, tables); err != nil {
			log.Error().Err(err).Msg("Failed to write SQLite results")
		}
	}

	if cfg.SpreadsheetID != "" && cfg.ResultsSheet != "" {
		credsFile := app.GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
		client, err := sheets.NewClient(ctx, credsFile)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create sheets client for results")
			return
		}
		// The results tab holds the trend table, the view most often
		// charted straight from the workbook. Append mode accumulates
		// runs instead of replacing the tab.
		for _, t := range tables {
			if t.Name != "sales_trend" {
				continue
			}
			if cfg.ResultsAppend {
				if err := client.AppendTable(ctx, cfg.SpreadsheetID, cfg.ResultsSheet, t.Rows); err != nil {
					log.Error().Err(err).Msg("Failed to append to results sheet")
				}
			} else {
				if err := client.WriteTable(ctx, cfg.SpreadsheetID, cfg.ResultsSheet, t.Header, t.Rows); err != nil {
					log.Error().Err(err).Msg("Failed to write results sheet")
				}
			}
			break
		}
	}
}
