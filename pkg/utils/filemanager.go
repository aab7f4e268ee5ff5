// =============================================================================
// Client Data Masker - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a masking run:
//   - Output file naming (placeholders for uuid, timestamp, input name)
//   - Error logs listing the rows that were dropped
//   - Input archival after a successful run
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to the archive directory after a successful run
//   - Failed runs leave the input where it is
//   - A cross-device move falls back to copy and delete
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// ResolveOutputPath expands the placeholders of an output path pattern.
//
// PARAMETERS:
//   - pattern: The output path. Placeholders:
//       {uuid}      - A random UUID
//       {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//       {date}      - Current date (YYYYMMDD)
//       {time}      - Current time (HHMMSS)
//       {original}  - Input file name without extension
//   - inputPath: The input file, used for {original}.
//
// EXAMPLE:
//   pattern: "out/{original}_{timestamp}.csv"
//   input:   "data/clients.csv"
//   output:  "out/clients_20240115_143022.csv"
func ResolveOutputPath(pattern, inputPath string) string {
	return expandPattern(pattern, inputPath, time.Now(), uuid.NewString)
}

func expandPattern(pattern, inputPath string, now time.Time, newID func() string) string {
	base := filepath.Base(inputPath)
	original := strings.TrimSuffix(base, filepath.Ext(base))

	replacer := strings.NewReplacer(
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
		"{original}", original,
	)
	result := replacer.Replace(pattern)

	// Each {uuid} gets a fresh value.
	for strings.Contains(result, "{uuid}") {
		result = strings.Replace(result, "{uuid}", newID(), 1)
	}

	return result
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry describes one dropped input row.
type ErrorLogEntry struct {
	Timestamp  time.Time
	FileName   string
	ErrorType  string
	Message    string
	RowNumber  int
	RawID      string
	FieldName  string
	FieldValue string
}

// WriteErrorLog writes the entries of one run to a text file in outputDir.
//
// PARAMETERS:
//   - entries: The error entries to write.
//   - outputDir: The directory to write the log file. Created if missing.
//   - runID: Identifies the run in the file name and header.
//
// RETURNS:
//   - The path to the error log file, or "" when there were no entries.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir, runID string) (path string, err error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create error log directory: %w", err)
	}

	now := time.Now()
	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s_%s.txt", now.Format("20060102_150405"), shortID(runID)))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close error log: %w", cerr)
		}
	}()

	if err := writeErrorLog(file, entries, runID, now); err != nil {
		return "", err
	}
	return logPath, nil
}

func writeErrorLog(w io.Writer, entries []ErrorLogEntry, runID string, generated time.Time) error {
	writer := bufio.NewWriter(w)

	fmt.Fprintf(writer, "Client Data Masker - Error Log\n"+
		"Run:          %s\n"+
		"Generated:    %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		runID,
		generated.Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n", i+1)
		fmt.Fprintf(writer, "  Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(writer, "  File:       %s\n", entry.FileName)
		fmt.Fprintf(writer, "  Error Type: %s\n", entry.ErrorType)
		if entry.Message != "" {
			fmt.Fprintf(writer, "  Message:    %s\n", entry.Message)
		}
		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number: %d\n", entry.RowNumber)
		}
		if entry.RawID != "" {
			fmt.Fprintf(writer, "  ID:         %s\n", entry.RawID)
		}
		if entry.FieldName != "" {
			fmt.Fprintf(writer, "  Field:      %s\n", entry.FieldName)
		}
		if entry.FieldValue != "" {
			fmt.Fprintf(writer, "  Value:      %s\n", entry.FieldValue)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush error log: %w", err)
	}
	return nil
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "run"
	}
	return id
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveFile moves a file into archiveDir.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//   - archiveDir: The archive root.
//   - dateSubdirs: Place the file under archiveDir/YYYY/MM/DD.
//
// RETURNS:
//   - The path to the archived file. An existing file of the same name is
//     never overwritten; a timestamp is added to the new name instead.
//   - An error if archival fails.
func ArchiveFile(filePath, archiveDir string, dateSubdirs bool) (string, error) {
	now := time.Now()

	dir := archiveDir
	if dateSubdirs {
		dir = filepath.Join(archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	fileName := filepath.Base(filePath)
	archivePath := filepath.Join(dir, fileName)
	if FileExists(archivePath) {
		ext := filepath.Ext(fileName)
		archivePath = filepath.Join(dir, fmt.Sprintf("%s_%s%s",
			strings.TrimSuffix(fileName, ext), now.Format("20060102_150405.000000000"), ext))
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
