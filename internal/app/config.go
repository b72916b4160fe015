package app

import (
	"os"
	"strings"

	"github.com/BenShieh233/inventory-sales/internal/prefix"

	"github.com/rs/zerolog/log"
)

// Config is the environment-driven configuration for one pipeline run.
type Config struct {
	// Google Sheets source. When SpreadsheetID is empty the CSV paths
	// below are used instead.
	SpreadsheetID  string
	InventorySheet string
	ResultsSheet   string
	ResultsAppend  bool

	// CSV source: one inventory file plus a directory holding one file
	// per platform, named <platform>.csv.
	InventoryCSV string
	SalesCSVDir  string

	// Wide single-table export (merchant column variant), optional.
	WideCSV string

	InventorySKUField string
	InventoryQtyField string

	SalesRule     prefix.Rule
	InventoryRule prefix.Rule

	// Export sinks. Empty values disable the sink.
	OutputDir  string
	SQLitePath string
}

// LoadConfig reads the pipeline configuration from the environment,
// falling back to the defaults used by the production exports.
func LoadConfig() Config {
	cfg := Config{
		SpreadsheetID:     os.Getenv("SPREADSHEET_ID"),
		InventorySheet:    GetEnvWithDefault("INVENTORY_SHEET", "单品超100台的吊扇明细"),
		ResultsSheet:      os.Getenv("RESULTS_SHEET"),
		ResultsAppend:     GetEnvWithDefault("RESULTS_APPEND", "false") == "true",
		InventoryCSV:      os.Getenv("INVENTORY_CSV"),
		SalesCSVDir:       os.Getenv("SALES_CSV_DIR"),
		WideCSV:           os.Getenv("WIDE_CSV"),
		InventorySKUField: GetEnvWithDefault("INVENTORY_SKU_FIELD", "SKU"),
		InventoryQtyField: GetEnvWithDefault("INVENTORY_QTY_FIELD", "Standard_QoH"),
		SalesRule:         prefix.Compile(envList("SALES_PREFIXES", prefix.DefaultSalesPrefixes)),
		InventoryRule:     prefix.Compile(envList("INVENTORY_PREFIXES", prefix.DefaultInventoryPrefixes)),
		OutputDir:         GetEnvWithDefault("OUTPUT_DIR", "outputs"),
		SQLitePath:        os.Getenv("SQLITE_PATH"),
	}

	log.Debug().
		Bool("sheets_source", cfg.SpreadsheetID != "").
		Str("output_dir", cfg.OutputDir).
		Strs("sales_prefixes", cfg.SalesRule.Prefixes()).
		Strs("inventory_prefixes", cfg.InventoryRule.Prefixes()).
		Msg("Loaded pipeline configuration")

	return cfg
}

// envList splits a comma-separated env var into a list, preserving order.
func envList(key string, defaults []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaults
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
