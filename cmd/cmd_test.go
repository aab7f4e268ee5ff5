package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientsCSV = `ID,Name,Email,Billing,Location
1,Alice,alice@mail.com,100.0,Paris
2,,bob@mail.com,200.0,London
2,Charlie,charlie@mail.com,200,Madrid
3,Dave,dave@mail.com,150.00,Berlin
1,Alice,alice@mail.com,100.0,Paris
`

// execute runs the command tree with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeClients(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "clients.csv")
	require.NoError(t, os.WriteFile(input, []byte(clientsCSV), 0o644))
	return dir, input
}

func TestProcessCommand(t *testing.T) {
	dir, input := writeClients(t)
	output := filepath.Join(dir, "out", "masked.csv")

	stdout, _, err := execute(t, "process", input, "-o", output)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Input data report:")
	assert.Contains(t, stdout, "Name:    Max. 7, Min. 4, Avg. 5.33")
	assert.Contains(t, stdout, "Billing: Max. 200.00, Min. 100.00, Avg. 150.00")
	assert.Contains(t, stdout, "Masked data written to "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, `ID,Name,Email,Billing,Location
1,XXXXX,XXXXX@XXXX.com,150.0,XXXXX
2,XXXXXXX,XXXXXXX@XXXX.com,150.0,XXXXXX
3,XXXX,XXXX@XXXX.com,150.0,XXXXXX
`, string(data))
}

func TestProcessCommand_XMLFromExtension(t *testing.T) {
	dir, input := writeClients(t)
	output := filepath.Join(dir, "masked.xml")

	stdout, _, err := execute(t, "process", input, "-o", output, "--xsd")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Schema written to "+filepath.Join(dir, "masked.xsd"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Name>XXXXX</Name>")
}

func TestProcessCommand_DryRun(t *testing.T) {
	dir, input := writeClients(t)
	output := filepath.Join(dir, "masked.csv")

	stdout, _, err := execute(t, "process", input, "-o", output, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry run: 3 masked rows were not written")

	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}

func TestProcessCommand_Errors(t *testing.T) {
	dir, input := writeClients(t)

	_, _, err := execute(t, "process")
	assert.Error(t, err, "input argument is required")

	_, _, err = execute(t, "process", input, "--format", "json")
	assert.ErrorContains(t, err, "invalid flags")

	_, _, err = execute(t, "process", filepath.Join(dir, "absent.csv"))
	assert.ErrorContains(t, err, "failed to read input")
}

func TestValidateCommand(t *testing.T) {
	_, input := writeClients(t)

	stdout, _, err := execute(t, "validate", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "row 2: invalid (id 2): Name must be non-empty")
	assert.Contains(t, stdout, "row 5: duplicate (id 1)\n")
	assert.Contains(t, stdout, "3 of 5 rows accepted, 1 duplicate, 1 invalid\n")

	_, _, err = execute(t, "validate", "--strict", input)
	assert.ErrorContains(t, err, "2 rows would be dropped")
}

func TestReportCommand(t *testing.T) {
	dir, input := writeClients(t)

	stdout, _, err := execute(t, "report", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Billing: Max. 200.00, Min. 100.00, Avg. 150.00")
	assert.Contains(t, stdout, "3 of 5 rows accepted")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "report writes no files")
}

func TestReportCommand_NoValidRows(t *testing.T) {
	input := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, os.WriteFile(input, []byte("ID,Name,Email,Billing,Location\n0,A,a@b.cd,1,X\n"), 0o644))

	stdout, _, err := execute(t, "report", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No valid candidates to report.")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Client Data Masker")
	assert.Contains(t, stdout, "Go Version:")
}

func TestRootCommand_BadLogFormat(t *testing.T) {
	_, input := writeClients(t)

	_, _, err := execute(t, "--log-format", "xml", "report", input)
	assert.ErrorContains(t, err, "invalid --log-format")
}
