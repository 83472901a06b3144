package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Counts tracks row survival through the curation checkpoints.
type Counts struct {
	Initial      int // rows entering validation (after projection + dedup)
	CoordValid   int // rows surviving the coordinate checks
	DateValid    int // rows surviving the date checks
	GeorefValid  int // rows surviving reverse geocoding
	ValidSpecies int // distinct names that resolved in the backbone
	Curated      int // rows in the final output
}

// Report is the plain-text run summary written next to the curated data.
type Report struct {
	Species   string
	SearchURL string
	Counts    Counts
}

// Render returns the report text, one labeled line per checkpoint.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Species: %s\n", r.Species)
	fmt.Fprintf(&b, "GBIF Data URL: %s\n", r.SearchURL)
	fmt.Fprintf(&b, "Total records fetched: %d\n", r.Counts.Initial)
	fmt.Fprintf(&b, "Records after coordinate validation: %d\n", r.Counts.CoordValid)
	fmt.Fprintf(&b, "Records after date validation: %d\n", r.Counts.DateValid)
	fmt.Fprintf(&b, "Records after georeferencing validation: %d\n", r.Counts.GeorefValid)
	fmt.Fprintf(&b, "Valid species names found: %d\n", r.Counts.ValidSpecies)
	fmt.Fprintf(&b, "Total curated records: %d\n", r.Counts.Curated)
	return b.String()
}

// WriteFile writes the rendered report to path.
func (r *Report) WriteFile(path string) error {
	return eris.Wrapf(os.WriteFile(path, []byte(r.Render()), 0o644), "pipeline: write report %s", path)
}

// SpeciesSlug converts a species name to the form used in output
// filenames, spaces replaced by underscores.
func SpeciesSlug(species string) string {
	return strings.ReplaceAll(species, " ", "_")
}
