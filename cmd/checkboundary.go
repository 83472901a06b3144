package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biotope-labs/gbif-curator/internal/boundary"
)

var (
	checkCSVPath string
	checkSHPPath string
	checkOutPath string
)

var checkBoundaryCmd = &cobra.Command{
	Use:   "checkboundary",
	Short: "Flag curated points as inside or outside a shapefile boundary",
	RunE: func(cmd *cobra.Command, args []string) error {
		stdin := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		var err error
		if checkCSVPath == "" {
			checkCSVPath, err = promptString(stdin, out, "Enter the path to the curated CSV file: ")
			if err != nil {
				return err
			}
		}
		if checkSHPPath == "" {
			checkSHPPath, err = promptString(stdin, out, "Enter the path to the shapefile (SHP): ")
			if err != nil {
				return err
			}
		}

		summary, err := boundary.Check(checkCSVPath, checkSHPPath, checkOutPath)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Validation complete. Points within shapefile: %d. Points not within shapefile: %d.\n",
			summary.Within, summary.Outside)
		fmt.Fprintf(out, "Results saved to '%s'.\n", summary.OutputPath)
		return nil
	},
}

func init() {
	checkBoundaryCmd.Flags().StringVar(&checkCSVPath, "csv", "", "curated CSV file (prompted if omitted)")
	checkBoundaryCmd.Flags().StringVar(&checkSHPPath, "shapefile", "", "boundary shapefile (prompted if omitted)")
	checkBoundaryCmd.Flags().StringVar(&checkOutPath, "output", boundary.DefaultOutputFile, "output CSV path")
	rootCmd.AddCommand(checkBoundaryCmd)
}
