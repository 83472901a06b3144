package main

import (
	"os"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/biotope-labs/gbif-curator/internal/pipeline"
)

var (
	batchFilePath    string
	batchConcurrency int
	batchOutDir      string
)

// batchFile is the YAML run file consumed by the batch command.
type batchFile struct {
	Species  []string `yaml:"species"`
	MinYear  int      `yaml:"min_year"`
	MaxYear  int      `yaml:"max_year"`
	PageSize int      `yaml:"page_size"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Curate several species from a YAML run file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		run, err := readBatchFile(batchFilePath)
		if err != nil {
			return err
		}
		minDate, maxDate := yearRange(run.MinYear, run.MaxYear)

		pageSize := run.PageSize
		if pageSize == 0 {
			pageSize = cfg.GBIF.PageSize
		}

		locator, closeLocator, err := newLocator(ctx)
		if err != nil {
			return err
		}
		defer closeLocator()

		curator := pipeline.New(newGBIFClient(), locator, pipeline.Options{
			PageSize:    pageSize,
			Concurrency: cfg.Georef.Concurrency,
			OutDir:      batchOutDir,
		})

		if batchConcurrency < 1 {
			batchConcurrency = 1
		}

		// A failed species is logged and skipped; the rest of the batch
		// still runs.
		var failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)
		for _, species := range run.Species {
			g.Go(func() error {
				if _, err := curator.Run(gctx, species, minDate, maxDate); err != nil {
					failed.Add(1)
					zap.L().Error("batch: species failed",
						zap.String("species", species),
						zap.Error(err),
					)
				}
				return nil
			})
		}
		_ = g.Wait()

		zap.L().Info("batch: complete",
			zap.Int("species", len(run.Species)),
			zap.Int64("failed", failed.Load()),
		)
		if n := failed.Load(); n > 0 {
			return eris.Errorf("batch: %d of %d species failed", n, len(run.Species))
		}
		return nil
	},
}

// readBatchFile parses and sanity-checks a batch run file.
func readBatchFile(path string) (*batchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read run file %s", path)
	}

	var run batchFile
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, eris.Wrapf(err, "batch: parse run file %s", path)
	}
	if len(run.Species) == 0 {
		return nil, eris.Errorf("batch: run file %s lists no species", path)
	}
	if run.MinYear == 0 || run.MaxYear == 0 {
		return nil, eris.Errorf("batch: run file %s needs min_year and max_year", path)
	}
	if run.MinYear > run.MaxYear {
		return nil, eris.Errorf("batch: min_year %d is after max_year %d", run.MinYear, run.MaxYear)
	}
	return &run, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchFilePath, "file", "runs.yaml", "YAML run file listing species and year bounds")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 1, "species curated in parallel")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", ".", "directory run artifacts are written to")
	rootCmd.AddCommand(batchCmd)
}
