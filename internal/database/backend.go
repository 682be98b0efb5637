package database

import (
	"context"

	"go.uber.org/zap"

	"github.com/foxxcyber/voicelist/internal/config"
	"github.com/foxxcyber/voicelist/internal/logging"
)

// Backend is the persistence chosen from configuration
type Backend struct {
	Name     string
	KV       KeyValueStore
	Products ProductSource
	close    func()
}

// Close releases the backend's connections
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenBackend selects Postgres when DATABASE_URL is set, SQLite when SQLITE_PATH
// is set, and an in-memory store otherwise. Only Postgres holds a products table;
// the other backends search the built-in catalog.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	logger = logging.OrNop(logger)

	switch {
	case cfg.DatabaseURL != "":
		db, err := Connect(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Backend{Name: "postgres", KV: db, Products: db, close: db.Close}, nil

	case cfg.SQLitePath != "":
		kv, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return &Backend{
			Name:     "sqlite",
			KV:       kv,
			Products: NewStaticCatalog(DefaultProducts),
			close:    func() { kv.Close() },
		}, nil
	}

	logger.Warn("no database configured, lists are kept in memory")
	return &Backend{Name: "memory", KV: NewMemoryKV(), Products: NewStaticCatalog(DefaultProducts)}, nil
}
