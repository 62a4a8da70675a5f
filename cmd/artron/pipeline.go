package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ItIsUday/artron/internal/catalog"
	"github.com/ItIsUday/artron/internal/config"
	"github.com/ItIsUday/artron/internal/model"
	"github.com/ItIsUday/artron/internal/resolve"
)

// plan is the output of every step before downloading.
type plan struct {
	CatalogURL string
	Resolution *model.Resolution
	Jobs       []resolve.Job
}

// newCache picks the S3 cache when a bucket is configured, else the local file.
func newCache(ctx context.Context, c *config.Config) (catalog.Cache, error) {
	if c.CacheS3Bucket != "" {
		return catalog.NewS3Cache(ctx, c.CacheS3Bucket, c.CacheS3Key, c.CacheS3Region, c.CacheS3Endpoint)
	}
	return catalog.NewFileCache(c.CacheFile), nil
}

func httpClient(c *config.Config) *http.Client {
	return &http.Client{Timeout: c.HTTPTimeout}
}

func filterTable(t model.Table, c *config.Config) model.Table {
	if c.ConfirmedOnly() {
		return catalog.FilterConfirmed(t)
	}
	return catalog.FilterDispositions(t, c.DispositionSet()...)
}

// buildPlan loads the catalog, keeps the accepted dispositions, resolves
// sectors, and encodes one job per light curve.
func buildPlan(ctx context.Context, c *config.Config, refresh bool, log *slog.Logger) (*plan, error) {
	cache, err := newCache(ctx, c)
	if err != nil {
		return nil, err
	}
	src := catalog.NewSource(c.CatalogURL, cache, httpClient(c), log)
	src.Refresh = refresh

	table, err := src.Table(ctx, c.Columns)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	kept := filterTable(table, c)
	log.Info("filtered catalog", "rows", table.Len(), "kept", kept.Len(), "dispositions", c.Dispositions)

	res, err := resolve.ResolveTargets(kept, c.Epochs())
	if err != nil {
		return nil, fmt.Errorf("resolve targets: %w", err)
	}
	for _, id := range res.Dropped {
		log.Debug("no sectors in range", "target", id, "min", c.MinSector, "max", c.MaxSector)
	}

	jobs, err := resolve.Plan(res)
	if err != nil {
		return nil, err
	}
	log.Info("planned downloads", "targets", res.Len(), "jobs", len(jobs), "dropped", len(res.Dropped))
	return &plan{CatalogURL: src.URL(), Resolution: res, Jobs: jobs}, nil
}
