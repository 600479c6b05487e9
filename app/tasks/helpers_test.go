package tasks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/atom-comb/app/database"
	"github.com/lysyi3m/atom-comb/app/feed"
)

type testEnv struct {
	configCache *feed.ConfigCache
	feedRepo    database.FeedRepository
	entryRepo   database.EntryRepository
	publisher   *feed.Publisher
}

// newTestEnv writes definitions (name to YAML) into a feeds directory and
// wires them to a fresh database.
func newTestEnv(t *testing.T, definitions map[string]string) *testEnv {
	t.Helper()

	feedsDir := t.TempDir()
	for name, content := range definitions {
		require.NoError(t, os.WriteFile(filepath.Join(feedsDir, name+".yml"), []byte(content), 0644))
	}

	configCache := feed.NewConfigCache(feedsDir)
	require.NoError(t, configCache.Run())

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, _, err = database.RunMigrations(db)
	require.NoError(t, err)

	feedRepo := database.NewFeedRepository(db)
	entryRepo := database.NewEntryRepository(db)

	return &testEnv{
		configCache: configCache,
		feedRepo:    feedRepo,
		entryRepo:   entryRepo,
		publisher:   feed.NewPublisher(configCache, feedRepo, entryRepo, ""),
	}
}
