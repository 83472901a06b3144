package main

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/biotope-labs/gbif-curator/internal/pipeline"
)

var (
	curateSpecies  string
	curateMinYear  int
	curateMaxYear  int
	curatePageSize int
	curateOutDir   string
	curateXLSX     bool
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Fetch and curate occurrence records for one species",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stdin := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		// Anything not given as a flag is prompted for, species first,
		// then the year bounds.
		var err error
		if curateSpecies == "" {
			curateSpecies, err = promptString(stdin, out, "Enter the species name: ")
			if err != nil {
				return err
			}
		}
		if curateMaxYear == 0 {
			curateMaxYear, err = promptInt(stdin, out, "Enter the maximum year for event dates: ")
			if err != nil {
				return err
			}
		}
		if curateMinYear == 0 {
			curateMinYear, err = promptInt(stdin, out, "Enter the minimum year for event dates: ")
			if err != nil {
				return err
			}
		}

		minDate, maxDate := yearRange(curateMinYear, curateMaxYear)

		pageSize := curatePageSize
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
			OutDir:      curateOutDir,
			XLSX:        curateXLSX,
		})

		if _, err := curator.Run(ctx, curateSpecies, minDate, maxDate); err != nil {
			return err
		}

		fmt.Fprintf(out, "Curated data for %s has been saved.\n", curateSpecies)
		return nil
	},
}

// yearRange expands inclusive year bounds to the date window Jan 1 of the
// minimum year through Dec 31 of the maximum year.
func yearRange(minYear, maxYear int) (time.Time, time.Time) {
	return time.Date(minYear, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(maxYear, 12, 31, 0, 0, 0, 0, time.UTC)
}

func init() {
	curateCmd.Flags().StringVar(&curateSpecies, "species", "", "scientific name to curate (prompted if omitted)")
	curateCmd.Flags().IntVar(&curateMinYear, "min-year", 0, "minimum event date year (prompted if omitted)")
	curateCmd.Flags().IntVar(&curateMaxYear, "max-year", 0, "maximum event date year (prompted if omitted)")
	curateCmd.Flags().IntVar(&curatePageSize, "page-size", 0, "occurrence records per GBIF request (default from config)")
	curateCmd.Flags().StringVar(&curateOutDir, "out-dir", ".", "directory run artifacts are written to")
	curateCmd.Flags().BoolVar(&curateXLSX, "xlsx", false, "also write the curated data as an XLSX workbook")
	rootCmd.AddCommand(curateCmd)
}
