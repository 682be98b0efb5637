package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/foxxcyber/voicelist/internal/config"
	"github.com/foxxcyber/voicelist/internal/database"
	"github.com/foxxcyber/voicelist/internal/logging"
)

// Engine bundles the components that interpret commands for the server and CLI
type Engine struct {
	Store      *ListStore
	Dispatcher *Dispatcher
	Searcher   ProductSearcher
	// nil unless S3 is configured
	Snapshots *StorageService
}

// NewEngine builds the engine from configuration over an opened backend
func NewEngine(ctx context.Context, cfg *config.Config, backend *database.Backend, logger *zap.Logger) (*Engine, error) {
	logger = logging.OrNop(logger)

	catalog := DefaultCatalog()
	if cfg.CatalogFile != "" {
		c, err := LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		catalog = c
		logger.Info("loaded catalog tables", zap.String("file", cfg.CatalogFile))
	}

	store := NewListStore(backend.KV, catalog, logger)

	var snapshots *StorageService
	if cfg.S3Configured() {
		s, err := NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
		if err != nil {
			logger.Warn("failed to initialize snapshot storage", zap.Error(err))
		} else if err := s.EnsureBucket(ctx); err != nil {
			logger.Warn("failed to ensure snapshot bucket exists", zap.Error(err))
		} else {
			snapshots = s
			store.SetArchiver(s)
			logger.Info("snapshot storage initialized", zap.String("bucket", s.GetBucketName()))
		}
	}

	var searcher ProductSearcher
	if cfg.SearchURL != "" {
		searcher = NewSearchClient(cfg.SearchURL, cfg.SearchTimeout)
	} else {
		searcher = NewCatalogSearcher(backend.Products, catalog)
	}

	var resolver IntentResolver
	if cfg.NLUURL != "" {
		resolver = NewNLUClient(cfg.NLUURL, cfg.NLUTimeout, logger)
	} else {
		logger.Info("NLU_URL not set, commands use the local parser")
	}

	dispatcher := NewDispatcher(store, resolver, searcher, DispatcherConfig{
		MinConfidence: cfg.NLUMinConfidence,
		DefaultLang:   cfg.DefaultLang,
		Serialize:     cfg.SerializeDispatch,
	}, logger)

	return &Engine{
		Store:      store,
		Dispatcher: dispatcher,
		Searcher:   searcher,
		Snapshots:  snapshots,
	}, nil
}
