// Package csvwriter writes masked output rows as delimited text.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/csv-pii-masker/internal/config"
)

// Write writes the header line and then one line per row. Cells that contain
// the delimiter, quotes or line breaks are quoted, so a reader using the same
// delimiter gets the cells back unchanged.
func Write(w io.Writer, header []string, rows [][]string, delimiter string) error {
	comma, err := config.ParseDelimiter(delimiter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes to path, creating parent directories as needed. An
// existing file is replaced.
func WriteFile(path string, header []string, rows [][]string, delimiter string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	return Write(file, header, rows, delimiter)
}
