package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVFormat(t *testing.T) {
	d := New("species", "note")
	require.NoError(t, d.Append([]string{"Puma concolor", `has "quotes", and commas`}))

	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf))

	assert.Equal(t, "species,note\nPuma concolor,\"has \"\"quotes\"\", and commas\"\n", buf.String())
}

func TestReadEmptyCSV(t *testing.T) {
	_, err := Read(bytes.NewReader(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestCSVFileRoundTrip(t *testing.T) {
	d := New("a", "b")
	require.NoError(t, d.Append([]string{"1", "two"}))
	require.NoError(t, d.Append([]string{"", "empty left cell"}))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, d.WriteCSV(path))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, d.Columns(), got.Columns())
	require.Equal(t, d.Len(), got.Len())
	assert.Equal(t, d.Row(1), got.Row(1))
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestReadCSVRaggedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1\n"), 0o644))

	_, err := ReadCSV(path)
	require.Error(t, err)
}
