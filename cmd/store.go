package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gaez-sqi/internal/config"
	"github.com/sells-group/gaez-sqi/internal/reqtable"
)

// initStore opens the database-backed requirement store for the configured
// driver.
func initStore(ctx context.Context, sc config.StoreConfig) (reqtable.Store, error) {
	switch sc.Driver {
	case "sqlite":
		dsn := sc.DatabaseURL
		if dsn == "" {
			dsn = "gaez.db"
		}
		return reqtable.NewSQLite(dsn)
	case "postgres":
		return reqtable.NewPostgres(ctx, sc.DatabaseURL, &reqtable.PoolConfig{
			MaxConns: sc.MaxConns,
			MinConns: sc.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", sc.Driver)
	}
}

// initProvider returns the requirement provider for scoring. A non-empty
// tablesPath (or the file driver) loads the tables into memory; otherwise the
// configured store is used, with transient read errors retried. The provider
// is wrapped in a cache when cache.enabled is set. The returned func releases
// the store.
func initProvider(ctx context.Context, c *config.Config, tablesPath string) (reqtable.Provider, func(), error) {
	if tablesPath == "" && c.Store.Driver == "file" {
		tablesPath = c.Store.TablesPath
	}

	var p reqtable.Provider
	closeFn := func() {}

	if tablesPath != "" {
		rows, err := reqtable.ReadFile(tablesPath)
		if err != nil {
			return nil, nil, eris.Wrap(err, "load requirement tables")
		}
		zap.L().Debug("loaded requirement tables",
			zap.String("path", tablesPath),
			zap.Int("rows", rows.Len()),
		)
		p = reqtable.NewMemory(rows)
	} else {
		st, err := initStore(ctx, c.Store)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open requirement store")
		}
		p = reqtable.NewRetrying(st, reqtable.RetryConfig{
			MaxAttempts:    c.Store.RetryAttempts,
			InitialBackoff: time.Duration(c.Store.RetryBackoffMs) * time.Millisecond,
		})
		closeFn = func() {
			if err := st.Close(); err != nil {
				zap.L().Warn("close requirement store", zap.Error(err))
			}
		}
	}

	if c.Cache.Enabled {
		p = reqtable.NewCached(p)
	}
	return p, closeFn, nil
}
