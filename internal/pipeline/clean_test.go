package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotope-labs/gbif-curator/internal/dataset"
)

func TestCleanProjectsAndDeduplicates(t *testing.T) {
	records := []json.RawMessage{
		occurrenceRecord("Puma concolor", "-23.5505", "-46.6333", "2020-01-15"),
		occurrenceRecord("Puma concolor", "-23.5505", "-46.6333", "2020-01-15"), // duplicate
		occurrenceRecord("Puma concolor", "-22.9068", "-43.1729", "2020-02-20"),
	}
	raw, err := dataset.FromJSONRecords(records)
	require.NoError(t, err)

	// raw data carries extra columns the projection must drop
	raw = raw.WithColumn("gbifID", "12345")

	out, err := Clean(raw)
	require.NoError(t, err)

	assert.Equal(t, CuratedColumns, out.Columns())
	assert.Equal(t, 2, out.Len())
}

func TestCleanMissingColumnIsFatal(t *testing.T) {
	d := dataset.New("species", "decimalLatitude") // far from complete

	_, err := Clean(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCleanEmptyFetchIsFatal(t *testing.T) {
	// zero records means zero columns, so the projection fails loudly
	empty, err := dataset.FromJSONRecords(nil)
	require.NoError(t, err)

	_, err = Clean(empty)
	require.Error(t, err)
}
