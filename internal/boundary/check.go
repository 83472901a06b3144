package boundary

import (
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/biotope-labs/gbif-curator/internal/dataset"
)

// DefaultOutputFile is where Check writes its results unless told otherwise.
const DefaultOutputFile = "validated_points_within_shapefile.csv"

// Summary reports the outcome of a boundary check.
type Summary struct {
	Within     int
	Outside    int
	OutputPath string
}

// Check reads curated occurrences from csvPath, tests each point against
// the polygons in shpPath, and writes the input with an appended
// within_shapefile column to outPath. The CSV must carry decimalLatitude
// and decimalLongitude columns and every cell of both must parse.
//
// A CSV declares no coordinate system, so points are taken as being in the
// shapefile's CRS; no reprojection happens.
func Check(csvPath, shpPath, outPath string) (*Summary, error) {
	set, err := LoadShapefile(shpPath)
	if err != nil {
		return nil, err
	}
	if set.CRS != "" {
		zap.L().Warn("boundary: assuming CSV points share the shapefile CRS",
			zap.String("crs", set.CRS),
		)
	}

	ds, err := dataset.ReadCSV(csvPath)
	if err != nil {
		return nil, err
	}
	latIdx, ok := ds.ColumnIndex("decimalLatitude")
	if !ok {
		return nil, eris.Errorf("boundary: %s has no \"decimalLatitude\" column", csvPath)
	}
	lonIdx, ok := ds.ColumnIndex("decimalLongitude")
	if !ok {
		return nil, eris.Errorf("boundary: %s has no \"decimalLongitude\" column", csvPath)
	}

	summary := &Summary{OutputPath: outPath}
	within := make([]string, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		lat, err := strconv.ParseFloat(row[latIdx], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: row %d latitude %q", i, row[latIdx])
		}
		lon, err := strconv.ParseFloat(row[lonIdx], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: row %d longitude %q", i, row[lonIdx])
		}

		inside := set.Contains(lon, lat)
		if inside {
			summary.Within++
		} else {
			summary.Outside++
		}
		within[i] = strconv.FormatBool(inside)
	}

	out, err := ds.WithColumnValues("within_shapefile", within)
	if err != nil {
		return nil, err
	}
	if err := out.WriteCSV(outPath); err != nil {
		return nil, err
	}

	zap.L().Info("boundary: check complete",
		zap.Int("within", summary.Within),
		zap.Int("outside", summary.Outside),
		zap.String("output", outPath),
	)
	return summary, nil
}
