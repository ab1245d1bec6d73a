package persistence_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"amazon_offers/internal/domain/entity"
	"amazon_offers/internal/infrastructure/persistence"
)

func TestHistoryStoreRoundTrip(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	store := persistence.NewHistoryStore(path)
	rq.NoError(store.Load(ctx))
	rq.Equal(0, store.Len())

	seen := time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC)

	store.Set("B0ABCDEF01", entity.HistoryEntry{
		Title:    "Widget",
		Price:    decimal.RequireFromString("19.99"),
		Link:     "https://example.com/dp/B0ABCDEF01",
		LastSeen: seen,
	})
	rq.NoError(store.Save(ctx))

	reloaded := persistence.NewHistoryStore(path)
	rq.NoError(reloaded.Load(ctx))
	rq.Equal(1, reloaded.Len())

	entry, ok := reloaded.Get("B0ABCDEF01")
	rq.True(ok)
	rq.Equal("Widget", entry.Title)
	rq.True(entry.Price.Equal(decimal.RequireFromString("19.99")))
	rq.Equal("https://example.com/dp/B0ABCDEF01", entry.Link)
	rq.True(entry.LastSeen.Equal(seen))
}

func TestHistoryStoreMissingFileIsEmpty(t *testing.T) {
	rq := require.New(t)

	store := persistence.NewHistoryStore(filepath.Join(t.TempDir(), "nope.json"))
	rq.NoError(store.Load(context.Background()))
	rq.Equal(0, store.Len())
}

func TestHistoryStoreCorruptFileIsEmpty(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "data.json")
	rq.NoError(os.WriteFile(path, []byte("{not json"), 0o644))

	store := persistence.NewHistoryStore(path)
	rq.NoError(store.Load(context.Background()))
	rq.Equal(0, store.Len())
}

func TestHistoryStoreSaveOverwritesAtomically(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	store := persistence.NewHistoryStore(path)
	store.Set("A1", entity.HistoryEntry{Price: decimal.RequireFromString("1")})
	rq.NoError(store.Save(ctx))

	store.Set("A2", entity.HistoryEntry{Price: decimal.RequireFromString("2")})
	rq.NoError(store.Save(ctx))

	// No temp files left behind.
	matches, err := filepath.Glob(path + ".tmp-*")
	rq.NoError(err)
	rq.Empty(matches)

	reloaded := persistence.NewHistoryStore(path)
	rq.NoError(reloaded.Load(ctx))
	rq.Equal(2, reloaded.Len())
}
