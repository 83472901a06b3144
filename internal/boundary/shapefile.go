package boundary

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// LoadShapefile reads every polygon record of a shapefile into a Set.
//
// Rings are grouped by the ESRI winding convention: clockwise rings are
// polygon outers, counterclockwise rings are holes, and each hole belongs
// to the first outer ring of the same record that contains its first
// vertex. A record with no clockwise ring keeps all its rings as outers.
// The .prj sidecar is kept verbatim as Set.CRS and the .cpg sidecar picks
// the DBF text encoding (ISO-8859-1 when absent, per dBase convention).
func LoadShapefile(path string) (*Set, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	set := &Set{CRS: readPRJ(path)}
	enc := readCPG(path)
	nameIdx := nameFieldIndex(reader.Fields())

	records := 0
	for reader.Next() {
		_, shape := reader.Shape()
		records++

		polygon, ok := shape.(*shp.Polygon)
		if !ok || polygon == nil || polygon.NumParts == 0 {
			continue
		}
		set.polygons = append(set.polygons, groupRings(polygon)...)

		if nameIdx >= 0 {
			raw := strings.TrimRight(reader.Attribute(nameIdx), "\x00")
			set.featureNames = append(set.featureNames, decodeAttr(enc, strings.TrimSpace(raw)))
		}
	}

	if set.NumPolygons() == 0 {
		return nil, eris.Errorf("boundary: %s contains no polygon records", path)
	}

	zap.L().Info("boundary: shapefile loaded",
		zap.String("path", path),
		zap.Int("records", records),
		zap.Int("polygons", set.NumPolygons()),
		zap.Strings("features", set.featureNames),
	)
	return set, nil
}

// groupRings splits one shapefile record into go-geom polygons.
func groupRings(p *shp.Polygon) []*geom.Polygon {
	var outers, holes [][]float64

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		if len(flat) < 8 { // a closed ring needs at least four vertices
			continue
		}

		if xy.IsRingCounterClockwise(geom.XY, flat) {
			holes = append(holes, flat)
		} else {
			outers = append(outers, flat)
		}
	}

	// Some producers wind everything counterclockwise; without a single
	// outer ring the hole/outer split is meaningless.
	if len(outers) == 0 {
		outers, holes = holes, nil
	}

	polygons := make([]*geom.Polygon, 0, len(outers))
	ringsByOuter := make([][][]float64, len(outers))
	for _, hole := range holes {
		assigned := false
		for i, outer := range outers {
			if xy.IsPointInRing(geom.XY, geom.Coord{hole[0], hole[1]}, outer) {
				ringsByOuter[i] = append(ringsByOuter[i], hole)
				assigned = true
				break
			}
		}
		if !assigned {
			zap.L().Debug("boundary: hole ring outside every outer ring, skipping")
		}
	}

	for i, outer := range outers {
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, outer)); err != nil {
			zap.L().Debug("boundary: skipping malformed outer ring", zap.Error(err))
			continue
		}
		for _, hole := range ringsByOuter[i] {
			if err := poly.Push(geom.NewLinearRingFlat(geom.XY, hole)); err != nil {
				zap.L().Debug("boundary: skipping malformed hole ring", zap.Error(err))
			}
		}
		polygons = append(polygons, poly)
	}
	return polygons
}

// readPRJ returns the CRS description next to the shapefile, if any.
func readPRJ(shpPath string) string {
	data, err := os.ReadFile(sidecar(shpPath, ".prj"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// readCPG resolves the DBF attribute encoding declared in the .cpg sidecar.
func readCPG(shpPath string) encoding.Encoding {
	data, err := os.ReadFile(sidecar(shpPath, ".cpg"))
	if err != nil {
		return charmap.ISO8859_1
	}

	name := strings.ToLower(strings.TrimSpace(string(data)))
	if name == "" {
		return charmap.ISO8859_1
	}
	if isDigits(name) {
		name = "windows-" + name
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		zap.L().Debug("boundary: unknown codepage, using ISO-8859-1",
			zap.String("cpg", name),
		)
		return charmap.ISO8859_1
	}
	return enc
}

func decodeAttr(enc encoding.Encoding, raw string) string {
	decoded, err := enc.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func nameFieldIndex(fields []shp.Field) int {
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, "NAME") {
			return i
		}
	}
	return -1
}

func sidecar(shpPath, ext string) string {
	return strings.TrimSuffix(shpPath, ".shp") + ext
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
