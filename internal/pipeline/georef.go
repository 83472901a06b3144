package pipeline

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/biotope-labs/gbif-curator/internal/dataset"
)

// Locator resolves whether a coordinate corresponds to a known place.
// pkg/nominatim satisfies it; internal/geocache wraps one with a cache.
type Locator interface {
	Locate(ctx context.Context, lat, lon float64) (bool, error)
}

// Georeference keeps the rows whose coordinates reverse-geocode to a known
// place, one lookup per row. Lookups run sequentially unless concurrency is
// greater than one; output row order is always input order. A lookup error
// is fatal (locators already demote timeouts to "not found").
func Georeference(ctx context.Context, ds *dataset.Dataset, loc Locator, concurrency int) (*dataset.Dataset, error) {
	latIdx, ok := ds.ColumnIndex("decimalLatitude")
	if !ok {
		return nil, eris.New("pipeline: georeference: column \"decimalLatitude\" not found")
	}
	lonIdx, ok := ds.ColumnIndex("decimalLongitude")
	if !ok {
		return nil, eris.New("pipeline: georeference: column \"decimalLongitude\" not found")
	}

	type point struct {
		lat, lon float64
	}
	points := make([]point, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		lat, err := strconv.ParseFloat(row[latIdx], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: georeference: row %d latitude", i)
		}
		lon, err := strconv.ParseFloat(row[lonIdx], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: georeference: row %d longitude", i)
		}
		points[i] = point{lat: lat, lon: lon}
	}

	keep := make([]bool, ds.Len())

	if concurrency <= 1 {
		for i, pt := range points {
			found, err := loc.Locate(ctx, pt.lat, pt.lon)
			if err != nil {
				return nil, eris.Wrapf(err, "pipeline: georeference row %d", i)
			}
			keep[i] = found
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, pt := range points {
			g.Go(func() error {
				found, err := loc.Locate(gctx, pt.lat, pt.lon)
				if err != nil {
					return eris.Wrapf(err, "pipeline: georeference row %d", i)
				}
				keep[i] = found
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := dataset.New(ds.Columns()...)
	dropped := 0
	for i := 0; i < ds.Len(); i++ {
		if !keep[i] {
			dropped++
			continue
		}
		if err := out.Append(ds.Row(i)); err != nil {
			return nil, err
		}
	}

	if dropped > 0 {
		zap.L().Info("pipeline: georeference dropped rows",
			zap.Int("dropped", dropped),
			zap.Int("kept", out.Len()),
		)
	}
	return out, nil
}
