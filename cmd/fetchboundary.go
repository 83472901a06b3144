package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/biotope-labs/gbif-curator/internal/fetcher"
)

var (
	fetchBoundaryURL  string
	fetchBoundaryDest string
)

var fetchBoundaryCmd = &cobra.Command{
	Use:   "fetchboundary",
	Short: "Download a boundary shapefile archive and extract it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := fetcher.ForURL(fetchBoundaryURL, 60*time.Second)
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp("", "boundary-*.zip")
		if err != nil {
			return err
		}
		tmp.Close() //nolint:errcheck
		defer os.Remove(tmp.Name()) //nolint:errcheck

		n, err := f.DownloadToFile(ctx, fetchBoundaryURL, tmp.Name())
		if err != nil {
			return err
		}
		zap.L().Info("fetchboundary: archive downloaded",
			zap.String("url", fetchBoundaryURL),
			zap.Int64("bytes", n),
		)

		shpPath, err := fetcher.ExtractShapefile(tmp.Name(), fetchBoundaryDest)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Boundary shapefile extracted to '%s'.\n", filepath.Clean(shpPath))
		return nil
	},
}

func init() {
	fetchBoundaryCmd.Flags().StringVar(&fetchBoundaryURL, "url", "", "archive URL (http, https, or ftp)")
	fetchBoundaryCmd.Flags().StringVar(&fetchBoundaryDest, "dest", "boundaries", "directory the shapefile is extracted into")
	_ = fetchBoundaryCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(fetchBoundaryCmd)
}
