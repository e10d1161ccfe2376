// Package fetcher reads entity lists from CSV and XLSX files.
package fetcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Options configures entity list reading.
type Options struct {
	// Column names the header of the entity column. Empty selects the
	// first column.
	Column string
	// Sheet names the XLSX sheet. Empty selects the first sheet.
	Sheet string
	// Limit caps the number of entities read. Zero reads all.
	Limit int
}

// ReadEntities loads the entity column from path. The format is chosen
// by file extension; the first row is treated as a header.
func ReadEntities(path string, opts Options) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: open file")
		}
		defer f.Close() //nolint:errcheck
		rows, err := readCSV(f)
		if err != nil {
			return nil, err
		}
		return selectColumn(rows, opts)
	case ".xlsx":
		rows, err := readXLSX(path, opts.Sheet)
		if err != nil {
			return nil, err
		}
		return selectColumn(rows, opts)
	default:
		return nil, eris.Errorf("fetcher: unsupported input format %q", filepath.Ext(path))
	}
}

// selectColumn pulls the entity column out of header-plus-data rows.
// Blank cells are skipped so sparse spreadsheet columns read cleanly.
func selectColumn(rows [][]string, opts Options) ([]string, error) {
	if len(rows) == 0 {
		return nil, eris.New("fetcher: file has no rows")
	}

	header := rows[0]
	col := 0
	if opts.Column != "" {
		col = -1
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), opts.Column) {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, eris.Errorf("fetcher: column %q not found in header %v", opts.Column, header)
		}
	}

	var entities []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		entity := strings.TrimSpace(row[col])
		if entity == "" {
			continue
		}
		entities = append(entities, entity)
		if opts.Limit > 0 && len(entities) >= opts.Limit {
			break
		}
	}

	if len(entities) == 0 {
		return nil, eris.New("fetcher: no entities in column")
	}
	return entities, nil
}
