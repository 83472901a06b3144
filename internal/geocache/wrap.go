package geocache

import (
	"context"

	"go.uber.org/zap"
)

// Locator is the reverse-geocode capability the pipeline consumes.
// pkg/nominatim satisfies it; so does the wrapper returned by Wrap.
type Locator interface {
	Locate(ctx context.Context, lat, lon float64) (bool, error)
}

// Wrap returns a Locator that consults store before delegating to next and
// writes fresh results back. Cache trouble degrades to a miss or a skipped
// write with a warning; it never fails the run.
func Wrap(next Locator, store Store) Locator {
	return &cachingLocator{next: next, store: store}
}

type cachingLocator struct {
	next  Locator
	store Store
}

func (c *cachingLocator) Locate(ctx context.Context, lat, lon float64) (bool, error) {
	found, hit, err := c.store.Get(ctx, lat, lon)
	if err != nil {
		zap.L().Warn("geocache: read failed, treating as miss",
			zap.String("key", Key(lat, lon)),
			zap.Error(err),
		)
	} else if hit {
		return found, nil
	}

	found, err = c.next.Locate(ctx, lat, lon)
	if err != nil {
		return false, err
	}

	if err := c.store.Put(ctx, lat, lon, found); err != nil {
		zap.L().Warn("geocache: write failed",
			zap.String("key", Key(lat, lon)),
			zap.Error(err),
		)
	}
	return found, nil
}
