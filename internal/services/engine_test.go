package services

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/voicelist/internal/config"
	"github.com/foxxcyber/voicelist/internal/database"
	"github.com/foxxcyber/voicelist/internal/models"
)

func TestNewEngineInMemory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DefaultLang: "en-IN", SerializeDispatch: true}

	backend, err := database.OpenBackend(ctx, cfg, nil)
	require.NoError(t, err)
	defer backend.Close()
	assert.Equal(t, "memory", backend.Name)

	e, err := NewEngine(ctx, cfg, backend, nil)
	require.NoError(t, err)
	assert.Nil(t, e.Snapshots)
	assert.IsType(t, &CatalogSearcher{}, e.Searcher)

	res, err := e.Dispatcher.Dispatch(ctx, models.Command{Owner: "alice", Transcript: "add 2 bananas"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.List.Count)
	assert.Equal(t, "Produce", res.List.Categories[0].Category)
}

func TestNewEngineOptionalServices(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - name: Fruit\n    keywords: [banana]\n"), 0o644))

	cfg := &config.Config{
		SearchURL:   "http://search.invalid/api/products/search",
		NLUURL:      "http://nlu.invalid/parse",
		CatalogFile: path,
	}
	backend := &database.Backend{Name: "memory", KV: database.NewMemoryKV(), Products: database.NewStaticCatalog(nil)}

	e, err := NewEngine(ctx, cfg, backend, nil)
	require.NoError(t, err)
	assert.IsType(t, &SearchClient{}, e.Searcher)
	assert.Equal(t, "Fruit", e.Store.Catalog().Categorize("bananas"))

	cfg.CatalogFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewEngine(ctx, cfg, backend, nil)
	assert.Error(t, err)
}

func TestSnapshotKeys(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 5, 0, time.FixedZone("IST", 5*3600+1800))

	assert.Equal(t, "snapshots/a%2Fb/", ownerPrefix("a/b"))

	key := snapshotKey("alice", at)
	assert.Regexp(t, regexp.MustCompile(`^snapshots/alice/20260314T040005Z-[0-9a-f-]{36}\.json$`), key)
	assert.NotEqual(t, key, snapshotKey("alice", at))
}

func TestLoadSnapshotRejectsPaths(t *testing.T) {
	s, err := NewStorageService("localhost:9000", "access", "secret", "list-snapshots", "us-east-1", false)
	require.NoError(t, err)
	assert.Equal(t, "list-snapshots", s.GetBucketName())

	for _, key := range []string{"", "../bob/x.json", "bob/x.json"} {
		_, err := s.LoadSnapshot(context.Background(), "alice", key)
		assert.ErrorIs(t, err, ErrSnapshotNotFound, key)
	}
}
