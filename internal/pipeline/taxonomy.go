package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/biotope-labs/gbif-curator/internal/dataset"
	"github.com/biotope-labs/gbif-curator/pkg/gbif"
)

// ValidateTaxonomy keeps the rows whose species name resolves in the GBIF
// backbone taxonomy. Each distinct name (first-seen order) is matched once;
// a lookup failure is fatal. Returns the filtered dataset and the number of
// distinct names that resolved.
func ValidateTaxonomy(ctx context.Context, ds *dataset.Dataset, client gbif.Client) (*dataset.Dataset, int, error) {
	spIdx, ok := ds.ColumnIndex("species")
	if !ok {
		return nil, 0, eris.New("pipeline: taxonomy: column \"species\" not found")
	}

	var names []string
	seen := make(map[string]struct{})
	for i := 0; i < ds.Len(); i++ {
		name := ds.Row(i)[spIdx]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	valid := make(map[string]struct{}, len(names))
	for _, name := range names {
		match, err := client.MatchName(ctx, name)
		if err != nil {
			return nil, 0, eris.Wrapf(err, "pipeline: taxonomy match %q", name)
		}
		if match.Matched() {
			valid[name] = struct{}{}
			zap.L().Debug("pipeline: species matched backbone",
				zap.String("species", name),
				zap.Int64("usage_key", match.UsageKey),
				zap.String("match_type", match.MatchType),
			)
		} else {
			zap.L().Info("pipeline: species failed backbone match",
				zap.String("species", name),
			)
		}
	}

	out := ds.Filter(func(row []string) bool {
		_, ok := valid[row[spIdx]]
		return ok
	})
	return out, len(valid), nil
}
