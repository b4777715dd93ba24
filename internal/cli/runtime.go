package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/microresearch/svgo/internal/asset"
	"github.com/microresearch/svgo/internal/catalog"
	"github.com/microresearch/svgo/internal/config"
	"github.com/microresearch/svgo/internal/store"
)

// runtime is the pipeline assembled from settings.
type runtime struct {
	settings config.Settings
	catalog  *catalog.Catalog
	cache    *asset.Cache
	store    *store.Store // nil without a cache database
}

func newHTTPClient(s config.Settings) *http.Client {
	return &http.Client{Timeout: s.FetchTimeout}
}

// loadCatalog loads the catalog named by the settings. Errors wrap
// catalog.ErrCatalogUnavailable.
func loadCatalog(ctx context.Context, s config.Settings) (*catalog.Catalog, error) {
	src := catalog.NewSource(s.CatalogURL, newHTTPClient(s), s.UserAgent)
	return catalog.Load(ctx, src)
}

// openRuntime loads the catalog, opens the optional cache database and
// warms the asset cache from it.
func openRuntime(ctx context.Context, s config.Settings) (*runtime, error) {
	cat, err := loadCatalog(ctx, s)
	if err != nil {
		return nil, err
	}

	rt := &runtime{settings: s, catalog: cat}
	var opts []asset.Option
	if s.CacheDB != "" {
		st, err := store.Open(ctx, s.CacheDB)
		if err != nil {
			return nil, fmt.Errorf("open cache database: %w", err)
		}
		rt.store = st
		opts = append(opts, asset.WithStore(st))
	}

	fetcher := asset.NewFetcher(s.AssetBase, newHTTPClient(s), s.UserAgent)
	rt.cache = asset.New(fetcher, cat, opts...)

	if rt.store != nil {
		n, err := rt.cache.Warm(ctx)
		if err != nil {
			slog.Warn("cache warm-up failed", "error", err)
		} else {
			slog.Debug("cache warmed", "entries", n)
		}
	}
	return rt, nil
}

// Close releases the cache database.
func (r *runtime) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
