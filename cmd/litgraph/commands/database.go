package commands

import (
	"context"
	"database/sql"

	"github.com/teranos/litgraph/am"
	"github.com/teranos/litgraph/db"
	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb"
	"github.com/teranos/litgraph/kb/engine"
	"github.com/teranos/litgraph/kb/storage"
	"github.com/teranos/litgraph/logger"
)

// openDatabase opens and migrates the configured database
func openDatabase(cfg *am.Config) (*sql.DB, error) {
	path := cfg.GetDatabasePath()
	database, err := db.OpenWithMigrations(path, logger.Logger)
	if err != nil {
		return nil, errors.WithHint(err, "set database.path in litgraph.toml or LITGRAPH_DATABASE_PATH")
	}
	return database, nil
}

// newExecutor wires the SQLite-backed collaborators into an executor.
// The returned cleanup releases the result cache codecs.
func newExecutor(ctx context.Context, database *sql.DB, cfg *am.Config, useCache bool) (*engine.Executor, func(), error) {
	index, err := storage.LoadMeshIndex(ctx, database)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load ontology")
	}
	logger.Logger.Debugw("Ontology loaded", logger.FieldCount, index.Len())

	var resolver kb.EntityResolver = storage.NewNameStore(database)
	if cfg.Resolver.CacheSize > 0 {
		cached, err := storage.NewCachedResolver(resolver, cfg.Resolver.CacheSize)
		if err != nil {
			return nil, nil, err
		}
		resolver = cached
	}

	opts := engine.Options{
		Ontology: index,
		Resolver: resolver,
		Logger:   logger.ComponentLogger("engine"),
	}
	cleanup := func() {}
	if cfg.Cache.Enabled && useCache {
		cache, err := storage.NewSQLResultCache(database, logger.ComponentLogger("cache"))
		if err != nil {
			return nil, nil, err
		}
		opts.Cache = cache
		cleanup = cache.Close
	}

	store := storage.NewSQLFactStore(database, logger.ComponentLogger("storage"))
	return engine.NewExecutor(store, opts), cleanup, nil
}
