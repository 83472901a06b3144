package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/biotope-labs/gbif-curator/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gbif-curator",
	Short: "GBIF occurrence data curation pipeline",
	Long:  "Fetches species occurrence records from GBIF, filters them by coordinate validity, event date, reverse geocoding, and backbone taxonomy, then writes curated CSV output plus a run report.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
