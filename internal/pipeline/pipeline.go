package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/biotope-labs/gbif-curator/pkg/gbif"
)

// Options tunes a curation run.
type Options struct {
	PageSize    int    // occurrence records per GBIF request
	Concurrency int    // parallel reverse-geocode lookups; 1 = sequential
	OutDir      string // directory run artifacts are written to
	XLSX        bool   // also write the curated data as a workbook
}

// Curator wires the curation stages together for end-to-end runs.
type Curator struct {
	gbif    gbif.Client
	locator Locator
	opts    Options
}

// New creates a Curator. Zero option fields get working defaults.
func New(gbifClient gbif.Client, locator Locator, opts Options) *Curator {
	if opts.PageSize <= 0 {
		opts.PageSize = 5000
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	return &Curator{gbif: gbifClient, locator: locator, opts: opts}
}

// Result summarizes a completed curation run.
type Result struct {
	Counts      Counts
	SearchURL   string
	RawCSV      string
	CuratedCSV  string
	CuratedXLSX string
	ReportTXT   string
}

// Run executes the full curation for one species: fetch, raw snapshot,
// clean, validate, georeference, taxonomy check, enrich, and report. Rows
// that fail a validation rule are dropped; everything else that goes wrong
// is fatal.
func (c *Curator) Run(ctx context.Context, species string, minDate, maxDate time.Time) (*Result, error) {
	log := zap.L().With(
		zap.String("run_id", uuid.New().String()),
		zap.String("species", species),
	)
	log.Info("pipeline: starting curation",
		zap.Time("min_date", minDate),
		zap.Time("max_date", maxDate),
		zap.Int("page_size", c.opts.PageSize),
	)

	raw, err := Fetch(ctx, c.gbif, species, c.opts.PageSize)
	if err != nil {
		return nil, err
	}

	slug := SpeciesSlug(species)
	result := &Result{
		SearchURL: gbif.PortalSearchURL(species),
		RawCSV:    filepath.Join(c.opts.OutDir, slug+"_gbif_raw_data.csv"),
	}

	// The raw snapshot goes to disk before any filtering so a failed run
	// still leaves the fetched records behind.
	if err := raw.WriteCSV(result.RawCSV); err != nil {
		return nil, eris.Wrap(err, "pipeline: write raw snapshot")
	}
	log.Info("pipeline: raw snapshot written",
		zap.String("path", result.RawCSV),
		zap.Int("records", raw.Len()),
	)

	cleaned, err := Clean(raw)
	if err != nil {
		return nil, err
	}

	validated, err := Validate(cleaned, minDate, maxDate)
	if err != nil {
		return nil, err
	}
	result.Counts.Initial = validated.Initial
	result.Counts.CoordValid = validated.CoordValid
	result.Counts.DateValid = validated.DateValid
	log.Info("pipeline: validation complete",
		zap.Int("initial", validated.Initial),
		zap.Int("coordinate_valid", validated.CoordValid),
		zap.Int("date_valid", validated.DateValid),
	)

	georeferenced, err := Georeference(ctx, validated.Data, c.locator, c.opts.Concurrency)
	if err != nil {
		return nil, err
	}
	result.Counts.GeorefValid = georeferenced.Len()

	curated, validNames, err := ValidateTaxonomy(ctx, georeferenced, c.gbif)
	if err != nil {
		return nil, err
	}
	result.Counts.ValidSpecies = validNames

	curated = Enrich(curated)
	result.Counts.Curated = curated.Len()

	result.CuratedCSV = filepath.Join(c.opts.OutDir, slug+"_gbif_curated_data.csv")
	if err := curated.WriteCSV(result.CuratedCSV); err != nil {
		return nil, eris.Wrap(err, "pipeline: write curated data")
	}
	if c.opts.XLSX {
		result.CuratedXLSX = filepath.Join(c.opts.OutDir, slug+"_gbif_curated_data.xlsx")
		if err := curated.WriteXLSX(result.CuratedXLSX, "curated"); err != nil {
			return nil, eris.Wrap(err, "pipeline: write curated workbook")
		}
	}

	report := &Report{Species: species, SearchURL: result.SearchURL, Counts: result.Counts}
	result.ReportTXT = filepath.Join(c.opts.OutDir, slug+"_gbif_report.txt")
	if err := report.WriteFile(result.ReportTXT); err != nil {
		return nil, err
	}

	log.Info("pipeline: curation complete",
		zap.Int("initial", result.Counts.Initial),
		zap.Int("curated", result.Counts.Curated),
		zap.String("curated_csv", result.CuratedCSV),
		zap.String("report", result.ReportTXT),
	)
	return result, nil
}
