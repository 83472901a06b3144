package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// shapefileExts are the archive members a boundary shapefile needs: the
// geometry, attribute, and index files plus the CRS and encoding sidecars.
var shapefileExts = map[string]bool{
	".shp": true,
	".dbf": true,
	".shx": true,
	".prj": true,
	".cpg": true,
}

// ExtractShapefile extracts the shapefile members of a ZIP archive into
// destDir, flattening any directory structure. Returns the path of the
// extracted .shp file. An archive without a .shp member is an error.
func ExtractShapefile(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrap(err, "zip: create destination")
	}

	var shpPath string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name))
		if !shapefileExts[ext] {
			continue
		}

		path, err := extractZIPEntry(f, destDir)
		if err != nil {
			return "", err
		}
		if ext == ".shp" {
			shpPath = path
		}
	}

	if shpPath == "" {
		return "", eris.Errorf("zip: no .shp member in %s", zipPath)
	}
	return shpPath, nil
}

// extractZIPEntry extracts a single zip.File into destDir under its base
// name. Returns the extracted file path.
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	// Base name only; entries never escape destDir.
	destPath := filepath.Join(destDir, filepath.Base(f.Name))

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "zip: write file")
	}

	return destPath, nil
}
