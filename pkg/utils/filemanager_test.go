package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPattern(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)
	ids := []string{"first", "second"}
	next := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	got := expandPattern("out/{original}_{timestamp}_{uuid}/{date}-{time}-{uuid}.csv", "data/clients.v2.csv", now, next)
	assert.Equal(t, "out/clients.v2_20240115_143022_first/20240115-143022-second.csv", got)

	assert.Equal(t, "data/masked_clients.csv",
		expandPattern("data/masked_clients.csv", "in.csv", now, next), "plain paths pass through")
}

func TestResolveOutputPath(t *testing.T) {
	got := ResolveOutputPath("{uuid}.xml", "clients.csv")
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.xml$`), got)
}

func TestWriteErrorLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	stamp := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	entries := []ErrorLogEntry{
		{Timestamp: stamp, FileName: "clients.csv", ErrorType: "duplicate", RowNumber: 3, RawID: "1"},
		{
			Timestamp: stamp, FileName: "clients.csv", ErrorType: "invalid",
			Message: "Email must be a valid email address. Got: nope", RowNumber: 4,
			RawID: "2", FieldName: "Email", FieldValue: "nope",
		},
	}

	path, err := WriteErrorLog(entries, dir, "0f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "error_log_"))
	assert.True(t, strings.HasSuffix(path, "_0f8fad5b.txt"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Run:          0f8fad5b-d9cb-469f-a165-70867728950e\n")
	assert.Contains(t, text, "Total Errors: 2\n")
	assert.Contains(t, text, "Error #2\n")
	assert.Contains(t, text, "  Error Type: invalid\n")
	assert.Contains(t, text, "  Field:      Email\n")
	assert.Contains(t, text, "  Row Number: 3\n")
	assert.True(t, strings.HasSuffix(text, "End of Error Log\n"))
}

func TestWriteErrorLog_NoEntries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	path, err := WriteErrorLog(nil, dir, "run")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.False(t, FileExists(dir), "no directory is created for an empty log")
}

func TestWriteErrorLog_OmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeErrorLog(&buf, []ErrorLogEntry{{FileName: "a.csv", ErrorType: "invalid"}}, "r", time.Now()))

	assert.NotContains(t, buf.String(), "Field:")
	assert.NotContains(t, buf.String(), "Row Number:")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0f8fad5b", shortID("0f8fad5b-d9cb-469f"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "run", shortID(""))
}

func TestArchiveFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "clients.csv")
	require.NoError(t, os.WriteFile(src, []byte("ID\n"), 0o644))

	archiveDir := filepath.Join(root, "archive")
	archived, err := ArchiveFile(src, archiveDir, false)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(archiveDir, "clients.csv"), archived)
	assert.False(t, FileExists(src))
	assert.True(t, FileExists(archived))

	// A second file of the same name does not overwrite the first.
	require.NoError(t, os.WriteFile(src, []byte("ID\n2\n"), 0o644))
	second, err := ArchiveFile(src, archiveDir, false)
	require.NoError(t, err)
	assert.NotEqual(t, archived, second)
	assert.True(t, strings.HasPrefix(filepath.Base(second), "clients_"))
	assert.Equal(t, ".csv", filepath.Ext(second))

	data, err := os.ReadFile(archived)
	require.NoError(t, err)
	assert.Equal(t, "ID\n", string(data))
}

func TestArchiveFile_DateSubdirs(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "clients.csv")
	require.NoError(t, os.WriteFile(src, []byte("ID\n"), 0o644))

	archived, err := ArchiveFile(src, filepath.Join(root, "archive"), true)
	require.NoError(t, err)

	rel, err := filepath.Rel(filepath.Join(root, "archive"), archived)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}/\d{2}/\d{2}/clients\.csv$`, filepath.ToSlash(rel))
}

func TestArchiveFile_MissingSource(t *testing.T) {
	_, err := ArchiveFile(filepath.Join(t.TempDir(), "absent.csv"), t.TempDir(), false)
	assert.Error(t, err)
}
