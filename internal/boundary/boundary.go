// Package boundary checks occurrence points against polygon boundaries read
// from an ESRI shapefile.
package boundary

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Set is a loaded polygon boundary: every polygon from every record of a
// shapefile, with outer rings and their holes already grouped.
type Set struct {
	// CRS is the verbatim contents of the .prj sidecar, when present. It is
	// informational; no reprojection happens anywhere in this package.
	CRS string

	polygons     []*geom.Polygon
	featureNames []string
}

// NumPolygons returns the number of outer rings loaded across all records.
func (s *Set) NumPolygons() int {
	return len(s.polygons)
}

// FeatureNames returns the decoded name attribute of each shapefile record
// that carried one.
func (s *Set) FeatureNames() []string {
	return append([]string(nil), s.featureNames...)
}

// Contains reports whether the point lies inside at least one polygon:
// inside its outer ring and not inside any of its holes.
func (s *Set) Contains(lon, lat float64) bool {
	pt := geom.Coord{lon, lat}

	for _, poly := range s.polygons {
		if !poly.Bounds().OverlapsPoint(geom.XY, pt) {
			continue
		}
		if !xy.IsPointInRing(geom.XY, pt, poly.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for i := 1; i < poly.NumLinearRings(); i++ {
			if xy.IsPointInRing(geom.XY, pt, poly.LinearRing(i).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}
