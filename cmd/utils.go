package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/scoutdeck/scoutdeck/pkg/catalog"
	"github.com/scoutdeck/scoutdeck/pkg/config"
	"github.com/scoutdeck/scoutdeck/pkg/gateway"
	"github.com/scoutdeck/scoutdeck/pkg/index"
	"github.com/scoutdeck/scoutdeck/pkg/recency"
)

// loadCatalog builds the in-memory catalog from the configured snapshot.
// A missing snapshot is not fatal: the catalog stays in its loading state
// and commands report that instead of "no results".
func loadCatalog(cfg *config.Config) *catalog.Catalog {
	c := catalog.New()
	if err := catalog.LoadSnapshot(c, cfg.CatalogPath); err != nil {
		fmt.Printf("Catalog not loaded yet (%v)\n", err)
	}
	return c
}

// indexPath returns the corpus index database location.
func indexPath(cfg *config.Config) string {
	return filepath.Join(cfg.StorageDir, "corpus.db")
}

// recencyPath returns the recency store database location.
func recencyPath(cfg *config.Config) string {
	return filepath.Join(cfg.StorageDir, "recency.db")
}

// newSearcher builds the remote search stack: the hosted service when a
// gateway URL is configured, the local corpus index otherwise. The caller
// must invoke the returned closer.
func newSearcher(cfg *config.Config) (gateway.Searcher, func() error, error) {
	if cfg.Gateway.URL != "" {
		httpSearcher := gateway.NewHTTPSearcher(cfg.Gateway.URL, cfg.Gateway.Timeout.Duration)
		retrying := gateway.NewRetrying(httpSearcher, cfg.Gateway.Retries, 0)
		return gateway.NewResilient(retrying), func() error { return nil }, nil
	}

	idx, err := index.Open(indexPath(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("opening corpus index: %w", err)
	}
	return gateway.NewResilient(idx), idx.Close, nil
}

// newTracker opens the durable recency tracker scoped to this device.
func newTracker(cfg *config.Config) (*recency.Tracker, func() error, error) {
	kv, err := recency.OpenSQLiteKV(recencyPath(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("opening recency store: %w", err)
	}
	deviceID, err := recency.DeviceID(kv)
	if err != nil {
		if cerr := kv.Close(); cerr != nil {
			return nil, nil, fmt.Errorf("closing recency store after %v: %w", err, cerr)
		}
		return nil, nil, err
	}
	return recency.NewTracker(kv, deviceID, cfg.Recency.Limit), kv.Close, nil
}
