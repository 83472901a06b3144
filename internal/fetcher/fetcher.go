// Package fetcher downloads boundary shapefile archives over HTTP or FTP
// and extracts their shapefile members.
package fetcher

import (
	"context"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Fetcher downloads a remote archive to a local file.
type Fetcher interface {
	// DownloadToFile fetches the URL and writes it to the given path.
	// Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// ForURL returns a fetcher for the URL's scheme: http, https, or ftp.
func ForURL(rawURL string, timeout time.Duration) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse url %q", rawURL)
	}
	switch u.Scheme {
	case "http", "https":
		return NewHTTPFetcher(HTTPOptions{Timeout: timeout}), nil
	case "ftp":
		return NewFTPFetcher(FTPOptions{Timeout: timeout}), nil
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
	}
}
