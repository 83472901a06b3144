package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/biotope-labs/gbif-curator/internal/geocache"
	"github.com/biotope-labs/gbif-curator/internal/pipeline"
	"github.com/biotope-labs/gbif-curator/pkg/gbif"
	"github.com/biotope-labs/gbif-curator/pkg/nominatim"
)

// newGBIFClient builds the GBIF API client from configuration.
func newGBIFClient() gbif.Client {
	return gbif.NewClient(
		gbif.WithBaseURL(cfg.GBIF.BaseURL),
		gbif.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.GBIF.TimeoutSecs) * time.Second,
		}),
	)
}

// newLocator builds the reverse-geocode locator: the Nominatim client,
// wrapped in a lookup cache when one is configured. The returned closer
// releases the cache store and is safe to call when caching is off.
func newLocator(ctx context.Context) (pipeline.Locator, func(), error) {
	nom := nominatim.NewClient(
		nominatim.WithBaseURL(cfg.Nominatim.BaseURL),
		nominatim.WithUserAgent(cfg.Nominatim.UserAgent),
		nominatim.WithRateLimit(cfg.Nominatim.RateLimit),
		nominatim.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Nominatim.TimeoutSecs) * time.Second,
		}),
	)

	var store geocache.Store
	ttl := time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour
	switch cfg.Cache.Driver {
	case "":
		return nom, func() {}, nil
	case "sqlite":
		s, err := geocache.NewSQLite(cfg.Cache.Path, ttl)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open sqlite geocache")
		}
		store = s
	case "postgres":
		s, err := geocache.NewPostgres(ctx, cfg.Cache.DatabaseURL, ttl)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open postgres geocache")
		}
		store = s
	default:
		return nil, nil, eris.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}

	closer := func() {
		if err := store.Close(); err != nil {
			zap.L().Warn("close geocache", zap.Error(err))
		}
	}
	return geocache.Wrap(nom, store), closer, nil
}
