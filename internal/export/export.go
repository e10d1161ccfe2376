// Package export writes result rows to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/model"
)

// WriteRows writes rows to path. The format is chosen by file
// extension; the header is always model.RowColumns.
func WriteRows(path string, rows []model.Row) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "export: create file")
		}
		if err := WriteCSV(f, rows); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrap(err, "export: close file")
		}
		return nil
	case ".xlsx":
		return writeXLSX(path, rows)
	default:
		return eris.Errorf("export: unsupported output format %q", filepath.Ext(path))
	}
}

// WriteCSV writes the header and rows to w in RowColumns order.
func WriteCSV(w io.Writer, rows []model.Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(model.RowColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return nil
}

func writeXLSX(path string, rows []model.Row) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Results")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.RowColumns {
		header.AddCell().Value = col
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, val := range row.Values() {
			r.AddCell().Value = val
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save file")
	}
	return nil
}
