// Package pipeline implements the occurrence curation stages: fetch, clean,
// validate, georeference, taxonomy check, enrich, and report.
package pipeline

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/biotope-labs/gbif-curator/internal/dataset"
	"github.com/biotope-labs/gbif-curator/pkg/gbif"
)

// Fetch pulls every occurrence page for species and tabulates the records
// in arrival order. Pagination advances offset by pageSize until a request
// returns zero records; a request failure is fatal, no retry.
func Fetch(ctx context.Context, client gbif.Client, species string, pageSize int) (*dataset.Dataset, error) {
	var records []json.RawMessage

	for offset := 0; ; offset += pageSize {
		page, err := client.SearchOccurrences(ctx, species, pageSize, offset)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: fetch page at offset %d", offset)
		}
		if len(page.Results) == 0 {
			break
		}
		records = append(records, page.Results...)

		zap.L().Info("pipeline: fetched occurrence page",
			zap.Int("offset", offset),
			zap.Int("page_records", len(page.Results)),
			zap.Int64("total_available", page.Count),
		)
	}

	ds, err := dataset.FromJSONRecords(records)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: tabulate occurrences")
	}
	return ds, nil
}
