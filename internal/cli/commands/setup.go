package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/owid/catalog-go/catalog/client"
	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/catalog/store"
	"github.com/owid/catalog-go/internal/cache"
	"github.com/owid/catalog-go/internal/cli/config"
	"github.com/owid/catalog-go/internal/search"
	"github.com/owid/catalog-go/internal/storage"
	"go.uber.org/zap"
)

// newLogger returns a development logger when verbose output is
// requested, otherwise a no-op logger so command output stays clean.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// buildClient wires a catalog client from the loaded configuration:
// metadata index, payload store, optional cache and remote search.
func buildClient(cfg *config.Config, logger *zap.Logger) (*client.Client, error) {
	idx, err := loadIndex(cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.New(idx)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog index: %w", err)
	}

	payloads, err := buildPayloadStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := client.Options{
		Store:    st,
		Payloads: payloads,
		Logger:   logger,
	}

	if cfg.Search.URL != "" {
		searcher, err := search.NewHTTPSearcher(search.Config{
			BaseURL: cfg.Search.URL,
			Index:   cfg.Search.Index,
			APIKey:  cfg.Search.APIKey,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure search service: %w", err)
		}
		opts.Searcher = searcher
	}

	return client.New(opts)
}

func loadIndex(cfg *config.Config) (*store.Index, error) {
	switch {
	case cfg.Catalog.IndexDB != "":
		idx, err := store.LoadSQLiteIndex(cfg.Catalog.IndexDB)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog index database: %w", err)
		}
		return idx, nil
	case cfg.Catalog.IndexFile != "":
		idx, err := store.LoadIndexFile(cfg.Catalog.IndexFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog index file: %w", err)
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("no catalog index configured: set catalog.index_db or catalog.index_file in catalog.yml")
	}
}

func buildPayloadStore(cfg *config.Config, logger *zap.Logger) (storage.PayloadStore, error) {
	var inner storage.PayloadStore
	var err error

	switch {
	case cfg.Catalog.Dir != "":
		inner, err = storage.NewLocalStore(cfg.Catalog.Dir, logger)
	case cfg.Catalog.RemoteURL != "":
		inner, err = storage.NewHTTPStore(cfg.Catalog.RemoteURL, &storage.HTTPStoreOptions{Logger: logger})
	default:
		return nil, fmt.Errorf("no payload source configured: set catalog.dir or catalog.remote_url in catalog.yml")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open payload store: %w", err)
	}

	c, ttl, err := buildCache(cfg)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return inner, nil
	}
	return storage.NewCachedStore(inner, c, ttl, logger), nil
}

func buildCache(cfg *config.Config) (cache.Cache, time.Duration, error) {
	ttl := cfg.Cache.TTL
	if ttl == 0 {
		ttl = cache.DefaultConfig().DefaultTTL
	}

	switch cfg.Cache.Backend {
	case "none":
		return nil, 0, nil
	case "", "memory":
		return cache.NewMemoryCache(), ttl, nil
	case "redis":
		rc := cache.DefaultRedisConfig()
		rc.Addr = cfg.Cache.Redis.Addr
		rc.Password = cfg.Cache.Redis.Password
		rc.DB = cfg.Cache.Redis.DB
		c, err := cache.NewRedisCache(rc)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to connect to redis cache: %w", err)
		}
		return c, ttl, nil
	default:
		return nil, 0, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// searchByKind routes a search through the sub-client for the given
// kind, or the unscoped client for KindAny.
func searchByKind(ctx context.Context, c *client.Client, kind path.Kind, query string, limit int) *client.ResponseSet {
	switch kind {
	case path.KindChart:
		return c.Charts().Search(ctx, query, limit)
	case path.KindTable:
		return c.Tables().Search(ctx, query, limit)
	case path.KindIndicator:
		return c.Indicators().Search(ctx, query, limit)
	default:
		return c.Search(ctx, query, limit)
	}
}

// parseKind maps the --kind flag value to an entry kind.
func parseKind(s string) (path.Kind, error) {
	switch s {
	case "", "any":
		return path.KindAny, nil
	case "chart":
		return path.KindChart, nil
	case "table":
		return path.KindTable, nil
	case "indicator":
		return path.KindIndicator, nil
	default:
		return path.KindAny, fmt.Errorf("unknown kind %q (expected chart, table or indicator)", s)
	}
}
