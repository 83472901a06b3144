// Package geocache persists reverse-geocode outcomes so repeated
// coordinates skip the network. It is a lookup cache, not a system of
// record: losing it costs time, never data.
package geocache

import (
	"context"
	"math"
	"strconv"
)

// Store persists lookup outcomes keyed by coordinate.
type Store interface {
	// Get returns the cached outcome for a coordinate. hit reports whether
	// the cache held a live entry.
	Get(ctx context.Context, lat, lon float64) (found, hit bool, err error)
	// Put records the outcome of a lookup, replacing any previous entry.
	Put(ctx context.Context, lat, lon float64, found bool) error
	Close() error
}

// Key renders a coordinate pair as the cache key. Coordinates are rounded
// to 8 decimals, the precision curated records carry.
func Key(lat, lon float64) string {
	return strconv.FormatFloat(round8(lat), 'f', -1, 64) + "," +
		strconv.FormatFloat(round8(lon), 'f', -1, 64)
}

func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
