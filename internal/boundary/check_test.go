package boundary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotope-labs/gbif-curator/internal/dataset"
)

func writePointsCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curated.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	shpPath := writeTestShapefile(t)
	csvPath := writePointsCSV(t, "species,decimalLatitude,decimalLongitude\n"+
		"Puma concolor,1,1\n"+
		"Puma concolor,4,4\n"+ // inside the hole
		"Puma concolor,105,105\n"+
		"Puma concolor,20,20\n")
	outPath := filepath.Join(t.TempDir(), DefaultOutputFile)

	summary, err := Check(csvPath, shpPath, outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Within)
	assert.Equal(t, 2, summary.Outside)
	assert.Equal(t, outPath, summary.OutputPath)

	out, err := dataset.ReadCSV(outPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"species", "decimalLatitude", "decimalLongitude", "within_shapefile"}, out.Columns())

	idx, ok := out.ColumnIndex("within_shapefile")
	require.True(t, ok)
	var got []string
	for i := 0; i < out.Len(); i++ {
		got = append(got, out.Row(i)[idx])
	}
	assert.Equal(t, []string{"true", "false", "true", "false"}, got)
}

func TestCheckMissingColumn(t *testing.T) {
	shpPath := writeTestShapefile(t)
	csvPath := writePointsCSV(t, "species,decimalLatitude\nPuma concolor,1\n")

	_, err := Check(csvPath, shpPath, filepath.Join(t.TempDir(), "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "decimalLongitude" column`)
}

func TestCheckBadCoordinate(t *testing.T) {
	shpPath := writeTestShapefile(t)
	csvPath := writePointsCSV(t, "species,decimalLatitude,decimalLongitude\n"+
		"Puma concolor,1,1\n"+
		"Puma concolor,not-a-number,4\n")

	_, err := Check(csvPath, shpPath, filepath.Join(t.TempDir(), "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1 latitude")
}

func TestCheckMissingInputs(t *testing.T) {
	dir := t.TempDir()
	shpPath := writeTestShapefile(t)

	_, err := Check(filepath.Join(dir, "absent.csv"), shpPath, filepath.Join(dir, "out.csv"))
	require.Error(t, err)

	csvPath := writePointsCSV(t, "species,decimalLatitude,decimalLongitude\n")
	_, err = Check(csvPath, filepath.Join(dir, "absent.shp"), filepath.Join(dir, "out.csv"))
	require.Error(t, err)
}
