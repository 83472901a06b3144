package pipeline

import (
	"github.com/biotope-labs/gbif-curator/internal/dataset"
)

// DataSource is the provenance value stamped on every curated row.
const DataSource = "GBIF"

// Enrich appends the dataSource provenance column, overwriting it if the
// source data already carried one.
func Enrich(ds *dataset.Dataset) *dataset.Dataset {
	return ds.WithColumn("dataSource", DataSource)
}
