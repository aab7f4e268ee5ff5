// =============================================================================
// Client Data Masker - XLSX Parser
// =============================================================================
//
// This module reads client records from an Excel workbook. The sheet is laid
// out like the delimited-text input:
//
//   | Column A | Column B | Column C      | Column D | Column E  |
//   |----------|----------|---------------|----------|-----------|
//   | ID       | Name     | Email         | Billing  | Location  |
//   | 1        | John Doe | john@mail.com | 100.00   | New York  |
//
// Cells are read as their formatted text, the way a user sees them in Excel.
// Blank rows are skipped and header cells are trimmed.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv-pii-masker/internal/types"
)

// Read returns the rows of one worksheet, header first.
//
// PARAMETERS:
//   - filePath: The path to the .xlsx workbook.
//   - sheet: The worksheet name. Empty selects the first sheet.
//
// RETURNS:
//   - The non-blank rows of the sheet.
//   - An error if the workbook cannot be opened or the sheet does not exist.
func Read(filePath, sheet string) ([]types.Row, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rawRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rows := make([]types.Row, 0, len(rawRows))
	for _, raw := range rawRows {
		if isRowEmpty(raw) {
			continue
		}
		if len(rows) == 0 {
			raw = cleanHeaders(raw)
		}
		rows = append(rows, types.RowFromStrings(raw))
	}

	return rows, nil
}

// Sheets lists the worksheet names of a workbook, in workbook order.
func Sheets(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// resolveSheet picks the requested sheet, or the first one.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return name, nil
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("sheet %q not found", sheet)
	}
	return sheet, nil
}

func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
