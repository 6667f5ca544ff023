// ABOUTME: Tests for CSV export
// ABOUTME: Validates header order, quoting, and collection rendering
package sheet

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koochoy97/sheet-app/models"
)

func TestWriteCSV(t *testing.T) {
	row := syncedRow(1, "Acme, S.L.")
	row.Fecha = "2026-08-30"
	row.Status = "Realizada"
	row.AEMails = []string{"a@x.com", "b@x.com"}
	row.LineaNegocio = []int{1, 3}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.Row{row}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header := records[0]
	require.Len(t, header, len(models.Columns))
	assert.Equal(t, "Company", header[0])
	assert.Equal(t, "Cliente", header[len(header)-1])

	line := records[1]
	assert.Equal(t, "Acme, S.L.", line[0], "embedded comma survives quoting")
	assert.Equal(t, "2026-08-30", line[1])
	mailsIdx := columnIndex(t, models.FieldAEMails)
	assert.Equal(t, "a@x.com\nb@x.com", line[mailsIdx])
	linesIdx := columnIndex(t, models.FieldLineaNegocio)
	assert.Equal(t, "1,3", line[linesIdx])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func columnIndex(t *testing.T, field models.Field) int {
	t.Helper()
	for i, col := range models.Columns {
		if col.Key == field {
			return i
		}
	}
	t.Fatalf("column %s not declared", field)
	return -1
}
