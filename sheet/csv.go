// ABOUTME: CSV export of the visible row set
// ABOUTME: Declared column order, RFC 4180 quoting, UTF-8
package sheet

import (
	"encoding/csv"
	"io"

	"github.com/koochoy97/sheet-app/models"
)

// ExportFilename is the default download name.
const ExportFilename = "datos.csv"

// WriteCSV writes one CSV row per record, columns in the declared
// display order, header first.
func WriteCSV(w io.Writer, rows []models.Row) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(models.Columns))
	for i, col := range models.Columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(models.Columns))
	for _, row := range rows {
		for i, col := range models.Columns {
			record[i] = row.FieldValue(col.Key)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
