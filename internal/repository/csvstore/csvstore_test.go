package csvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/retailops/stocksim/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() repository.Defaults {
	return repository.Defaults{
		OnHand:    100,
		StartDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "OpeningStock.csv"), testDefaults())
}

func TestResolveSynthesizesDefaultOnMiss(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.Resolve(context.Background(), "1", "42")
	require.NoError(t, err)

	assert.Equal(t, "1", rec.StoreID)
	assert.Equal(t, "42", rec.ItemID)
	assert.Equal(t, 100, rec.OnHand)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), rec.StartDate)
}

func TestResolveIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Resolve(ctx, "1", "42")
	require.NoError(t, err)
	second, err := store.Resolve(ctx, "1", "42")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// No duplicate row was appended.
	raw, err := os.ReadFile(store.path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 2, "one header plus exactly one record")
}

func TestResolveReturnsExistingRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "OpeningStock.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("StoreID,ItemID,onHand,startDate\n7,9,250,2024-06-30\n"), 0644))

	store := New(path, testDefaults())

	rec, err := store.Resolve(context.Background(), "7", "9")
	require.NoError(t, err)
	assert.Equal(t, 250, rec.OnHand)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), rec.StartDate)
}

func TestResolveConcurrentMisses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Resolve(ctx, fmt.Sprintf("%d", i%5), "1")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, err := store.ListStoreItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 5, "each pair must be appended exactly once")
}

func TestListStoreItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	items, err := store.ListStoreItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = store.Resolve(ctx, "1", "10")
	require.NoError(t, err)
	_, err = store.Resolve(ctx, "2", "20")
	require.NoError(t, err)

	items, err = store.ListStoreItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestResolveHonorsContextCancellation(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Resolve(ctx, "1", "1")
	assert.ErrorIs(t, err, context.Canceled)
}
