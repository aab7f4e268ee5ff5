package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv-pii-masker/internal/types"
)

// writeWorkbook saves a workbook whose sheets hold the given rows, starting at A1.
func writeWorkbook(t *testing.T, sheets map[string][][]any, order ...string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}

		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "clients.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRead_FirstSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Clients": {
			{" ID ", "Name", "Email", "Billing", "Location"},
			{"1", "John Doe", "john@mail.com", "100.00", "New York"},
			{},
			{"2", "Jane", "jane@mail.com", "200", "Paris"},
		},
		"Other": {
			{"ignored"},
		},
	}, "Clients", "Other")

	rows, err := Read(path, "")
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Name", "Email", "Billing", "Location"}, rows[0].Strings())
	assert.Equal(t, types.Row{"1", "John Doe", "john@mail.com", "100.00", "New York"}, rows[1])
	assert.Equal(t, "Paris", rows[2][4])
}

func TestRead_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Summary": {{"nothing here"}},
		"Data": {
			{"ID", "Name"},
			{"7", "Ann"},
		},
	}, "Summary", "Data")

	rows, err := Read(path, "Data")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "7", rows[1][0])

	_, err = Read(path, "Missing")
	assert.ErrorContains(t, err, `sheet "Missing" not found`)
}

func TestSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{}, "A", "B")

	names, err := Sheets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.xlsx"), "")
	assert.Error(t, err)
}
