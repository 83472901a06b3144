package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/biotope-labs/gbif-curator/internal/dataset"
)

// CuratedColumns is the projection the cleaning stage keeps, in output
// order. Every downstream stage assumes exactly these columns.
var CuratedColumns = []string{
	"species",
	"decimalLatitude",
	"decimalLongitude",
	"country",
	"eventDate",
	"basisOfRecord",
	"institutionCode",
	"identificationID",
	"identifiedBy",
}

// Clean projects the raw occurrence table onto the curated columns and
// drops rows that are identical across all of them, keeping first
// occurrences. A missing column is fatal.
func Clean(ds *dataset.Dataset) (*dataset.Dataset, error) {
	out, err := ds.Select(CuratedColumns...)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: clean")
	}
	return out.DropDuplicates(), nil
}
