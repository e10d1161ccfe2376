package fetcher

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// readCSV reads all rows from r. Variable field counts are allowed so
// ragged exports from spreadsheet tools still parse.
func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, record)
	}
}
