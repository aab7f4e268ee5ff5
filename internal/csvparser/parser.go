// =============================================================================
// Client Data Masker - CSV Parser Module
// =============================================================================
//
// This module reads delimited-text client files into raw rows. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Different encodings (UTF-8 with or without BOM, ISO-8859-1, Windows-1252)
//   - Rows with a varying number of fields
//   - Blank lines, which are skipped
//
// Cells are returned exactly as read. Only header cells are trimmed, so the
// row processor sees the raw id values it deduplicates on.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/csv-pii-masker/internal/config"
	"github.com/ginjaninja78/csv-pii-masker/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Read opens a delimited-text file and returns its rows, header first.
//
// PARAMETERS:
//   - filePath: The path to the input file.
//   - settings: Delimiter and encoding of the file.
//
// RETURNS:
//   - The rows of the file, blank lines removed. An empty file gives no rows.
//   - An error if the file cannot be opened, decoded or parsed.
func Read(filePath string, settings config.InputSettings) ([]types.Row, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadFrom(bufio.NewReader(file), settings)
}

// ReadFrom parses delimited text from r. See Read.
func ReadFrom(r io.Reader, settings config.InputSettings) ([]types.Row, error) {
	decoder, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(r, decoder))
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	rows := make([]types.Row, 0, len(allRows))
	for _, raw := range allRows {
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

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputSettings) error {
	comma, err := config.ParseDelimiter(settings.Delimiter)
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Rows may be short or long; the row processor decides what to do.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	return nil
}

// decoderFor returns the decoder turning the named encoding into UTF-8.
// A UTF-8 byte order mark is stripped when present.
func decoderFor(name string) (transform.Transformer, error) {
	canonical, ok := config.NormalizeEncoding(name)
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}

	var enc encoding.Encoding
	switch canonical {
	case "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252":
		enc = charmap.Windows1252
	default:
		return unicode.BOMOverride(encoding.Nop.NewDecoder()), nil
	}
	return enc.NewDecoder(), nil
}

// cleanHeaders trims whitespace around header names.
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
