package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// ReadCSV loads a CSV file as a Table. Cells stay strings; coercion
// happens at extraction time, same as for sheet grids.
func ReadCSV(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	tbl, err := readCSV(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("rows", len(tbl.Rows)).
		Msg("Loaded CSV table")
	return tbl, nil
}

func readCSV(r io.Reader, opts ...Option) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var grid [][]interface{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		row := make([]interface{}, len(record))
		for i, cell := range record {
			row[i] = cell
		}
		grid = append(grid, row)
	}

	return FromGrid(grid, opts...)
}
