package processor

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-pii-masker/internal/record"
	"github.com/ginjaninja78/csv-pii-masker/internal/types"
)

var header = types.Row{"ID", "Name", "Email", "Billing", "Location"}

func quietProcessor(opts ...Option) *Processor {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(opts...)
}

func ids(records []record.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

type countingRecorder struct {
	processed, accepted int
	skipped             map[SkipReason]int
}

func (c *countingRecorder) RowProcessed()   { c.processed++ }
func (c *countingRecorder) RecordAccepted() { c.accepted++ }
func (c *countingRecorder) RowSkipped(reason SkipReason) {
	if c.skipped == nil {
		c.skipped = make(map[SkipReason]int)
	}
	c.skipped[reason]++
}

func TestRun_FailedRowDoesNotReserveID(t *testing.T) {
	rows := []types.Row{
		header,
		{"1", "Alice", "alice@mail.com", "100.0", "Paris"},
		{"2", "", "bob@mail.com", "200.0", "London"},
		{"2", "Charlie", "charlie@mail.com", "150.0", "Madrid"},
		{"3", "Charlie", "charlie@mail.com", "150.0", "Berlin"},
	}

	batch, err := quietProcessor().Run(rows)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, ids(batch.Records))
	assert.Equal(t, "Madrid", batch.Records[1].Location())
	require.Len(t, batch.Skipped, 1)
	assert.Equal(t, 2, batch.Skipped[0].Row)
	assert.Equal(t, SkipInvalid, batch.Skipped[0].Reason)
	assert.ErrorIs(t, batch.Skipped[0].Err, record.ErrInvalidName)
	assert.Equal(t, 4, batch.DataRows)
}

func TestRun_FirstValidOccurrenceWins(t *testing.T) {
	rows := []types.Row{
		header,
		{"7", "Alice", "alice@mail.com", "100.0", "Paris"},
		{"7", "Bob", "bob@mail.com", "200.0", "London"},
		{"7", "", "broken", "x", ""},
	}

	batch, err := quietProcessor().Run(rows)
	require.NoError(t, err)

	require.Len(t, batch.Records, 1)
	assert.Equal(t, "Alice", batch.Records[0].Name())
	assert.Equal(t, 2, batch.Count(SkipDuplicate))
	for _, s := range batch.Skipped {
		assert.Equal(t, SkipDuplicate, s.Reason)
		assert.NoError(t, s.Err)
		assert.Equal(t, "7", s.RawID)
	}
}

func TestRun_RawIDComparison(t *testing.T) {
	rows := []types.Row{
		header,
		{"1", "Alice", "alice@mail.com", "100.0", "Paris"},
		{" 1", "Bob", "bob@mail.com", "200.0", "London"},
		{1, "Carol", "carol@mail.com", 50.0, "Rome"},
	}

	batch, err := quietProcessor().Run(rows)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, ids(batch.Records))
}

func TestRun_HeaderOrderIrrelevant(t *testing.T) {
	rows := []types.Row{
		{"Location", " Billing ", "Email", "Name", "ID", "Extra"},
		{"1", "Alice", "alice@mail.com", "100.0", "Paris", "ignored"},
	}

	batch, err := quietProcessor().Run(rows)
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "Paris", batch.Records[0].Location())
}

func TestRun_ShortRows(t *testing.T) {
	rows := []types.Row{
		header,
		{},
		{"1", "Alice"},
		{"1", "Alice", "alice@mail.com", "100.0", "Paris"},
		{"1", "Alice"},
	}

	batch, err := quietProcessor().Run(rows)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, ids(batch.Records))
	require.Len(t, batch.Skipped, 3)
	assert.ErrorIs(t, batch.Skipped[0].Err, ErrShortRow)
	assert.Nil(t, batch.Skipped[0].RawID)
	assert.ErrorIs(t, batch.Skipped[1].Err, ErrShortRow)
	assert.Equal(t, SkipDuplicate, batch.Skipped[2].Reason)
}

func TestRun_HeaderOnly(t *testing.T) {
	batch, err := quietProcessor().Run([]types.Row{header})
	require.NoError(t, err)
	assert.Empty(t, batch.Records)
	assert.Empty(t, batch.Skipped)
	assert.Zero(t, batch.DataRows)
}

func TestProcess_EmptyInput(t *testing.T) {
	_, err := Process(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Process([]types.Row{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestProcess_MissingHeaderFields(t *testing.T) {
	rows := []types.Row{
		{"ID", "Name", "Email"},
		{"1", "Alice", "alice@mail.com"},
	}

	_, err := Process(rows)
	require.Error(t, err)

	var missingErr *MissingFieldsError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"Billing", "Location"}, missingErr.Missing)
	assert.Equal(t, "missing required fields in header: [Billing Location]", err.Error())
}

func TestRun_LogsSkippedRows(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rows := []types.Row{
		header,
		{"1", "Alice", "alice@mail.com", "100.0", "Paris"},
		{"1", "Alice", "alice@mail.com", "100.0", "Paris"},
		{"2", "B0b", "bob@mail.com", "100.0", "Paris"},
	}

	_, err := New(WithLogger(logger)).Run(rows)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "processing row")
	assert.Contains(t, out, "duplicate id, skipping")
	assert.Contains(t, out, "row is invalid, skipping")
	assert.Contains(t, out, "Name must be non-empty and contain no numbers")
}

func TestRun_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	rows := []types.Row{
		header,
		{"1", "Alice", "alice@mail.com", "100.0", "Paris"},
		{"1", "Alice", "alice@mail.com", "100.0", "Paris"},
		{"x", "Alice", "alice@mail.com", "100.0", "Paris"},
		{"2", "Bob", "bob@mail.com", "1", "Oslo"},
	}

	_, err := quietProcessor(WithRecorder(rec)).Run(rows)
	require.NoError(t, err)

	assert.Equal(t, 4, rec.processed)
	assert.Equal(t, 2, rec.accepted)
	assert.Equal(t, 1, rec.skipped[SkipDuplicate])
	assert.Equal(t, 1, rec.skipped[SkipInvalid])
}

func TestProperty_DuplicatesKeepFirstOccurrence(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("accepted ids are unique and in first-seen order", prop.ForAll(
		func(rawIDs []int) bool {
			rows := []types.Row{header}
			for _, id := range rawIDs {
				rows = append(rows, types.Row{id, "Name", "name@mail.com", "1.00", "Town"})
			}

			batch, err := quietProcessor().Run(rows)
			if err != nil {
				return false
			}

			var want []int
			seen := map[int]bool{}
			for _, id := range rawIDs {
				if !seen[id] {
					seen[id] = true
					want = append(want, id)
				}
			}

			got := ids(batch.Records)
			if len(got) != len(want) {
				return false
			}
			for i := range want {
				if got[i] != want[i] {
					return false
				}
			}
			return batch.Count(SkipDuplicate) == len(rawIDs)-len(want)
		},
		gen.SliceOf(gen.IntRange(1, 20)),
	))

	properties.TestingRun(t)
}
