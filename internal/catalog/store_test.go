package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	fn func(ctx context.Context) ([]Item, error)
}

func (s *stubFetcher) ListItems(ctx context.Context) ([]Item, error) {
	return s.fn(ctx)
}

func fixedItems() []Item {
	return []Item{
		{ID: 1, Name: "Apple", Price: decimal.RequireFromString("6.71"), Category: "Fruits"},
		{ID: 2, Name: "Banana", Price: decimal.RequireFromString("1.11"), Category: "Fruits"},
	}
}

// ============================================
// Refresh Tests
// ============================================

func TestStore_Refresh_ReplacesSnapshotWholesale(t *testing.T) {
	items := fixedItems()
	store := NewStore(&stubFetcher{fn: func(ctx context.Context) ([]Item, error) {
		return items, nil
	}})

	store.Refresh(context.Background())
	require.Equal(t, 2, store.Len())

	items = []Item{{ID: 3, Name: "Chicken", Price: decimal.RequireFromString("6.00"), Category: "Meat"}}
	store.Refresh(context.Background())

	got := store.Get()
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, "Chicken", got[0].Name)
}

func TestStore_Refresh_FetchFailureInstallsSampleCatalog(t *testing.T) {
	store := NewStore(&stubFetcher{fn: func(ctx context.Context) ([]Item, error) {
		return nil, errors.New("connection refused")
	}})

	store.Refresh(context.Background())

	got := store.Get()
	require.Len(t, got, 6)
	want := SampleItems()
	for i, item := range got {
		assert.Equal(t, want[i].ID, item.ID)
		assert.Equal(t, want[i].Name, item.Name)
		assert.True(t, want[i].Price.Equal(item.Price), "price of %s", item.Name)
		assert.Equal(t, want[i].Category, item.Category)
	}
}

func TestStore_Refresh_RepeatedFailureIsIdempotent(t *testing.T) {
	store := NewStore(&stubFetcher{fn: func(ctx context.Context) ([]Item, error) {
		return nil, errors.New("still down")
	}})

	store.Refresh(context.Background())
	first := store.Get()
	store.Refresh(context.Background())
	second := store.Get()

	assert.Equal(t, first, second)
}

func TestStore_Refresh_DropsDuplicateIDs(t *testing.T) {
	store := NewStore(&stubFetcher{fn: func(ctx context.Context) ([]Item, error) {
		return []Item{
			{ID: 1, Name: "Apple", Price: decimal.RequireFromString("6.71"), Category: "Fruits"},
			{ID: 1, Name: "Apple again", Price: decimal.RequireFromString("9.99"), Category: "Fruits"},
			{ID: 2, Name: "Banana", Price: decimal.RequireFromString("1.11"), Category: "Fruits"},
		}, nil
	}})

	store.Refresh(context.Background())

	got := store.Get()
	require.Len(t, got, 2)
	assert.Equal(t, "Apple", got[0].Name)
	assert.Equal(t, "Banana", got[1].Name)
}

func TestStore_Refresh_StaleResponseDiscarded(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	store := NewStore(&stubFetcher{fn: func(ctx context.Context) ([]Item, error) {
		if calls.Add(1) == 1 {
			once.Do(func() { close(started) })
			<-release
			return []Item{{ID: 1, Name: "Old", Category: "Stale"}}, nil
		}
		return []Item{{ID: 2, Name: "New", Category: "Fresh"}}, nil
	}})

	done := make(chan struct{})
	go func() {
		store.Refresh(context.Background())
		close(done)
	}()
	<-started

	// Second refresh issued while the first is still in flight.
	store.Refresh(context.Background())

	close(release)
	<-done

	got := store.Get()
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Name, "the older response must not overwrite the newer one")
}

// ============================================
// Snapshot Access Tests
// ============================================

func TestStore_Get_ReturnsCopy(t *testing.T) {
	store := NewStore(&stubFetcher{fn: func(ctx context.Context) ([]Item, error) {
		return fixedItems(), nil
	}})
	store.Refresh(context.Background())

	got := store.Get()
	got[0].Name = "Tampered"

	assert.Equal(t, "Apple", store.Get()[0].Name)
}

func TestStore_Find(t *testing.T) {
	store := NewStore(&stubFetcher{fn: func(ctx context.Context) ([]Item, error) {
		return fixedItems(), nil
	}})
	store.Refresh(context.Background())

	item, ok := store.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Banana", item.Name)

	_, ok = store.Find(99)
	assert.False(t, ok)
}

func TestStore_Subscribe_NotifiedOnEveryReplacement(t *testing.T) {
	fail := false
	store := NewStore(&stubFetcher{fn: func(ctx context.Context) ([]Item, error) {
		if fail {
			return nil, errors.New("down")
		}
		return fixedItems(), nil
	}})

	notified := 0
	store.Subscribe(func() { notified++ })

	store.Refresh(context.Background())
	fail = true
	store.Refresh(context.Background())

	assert.Equal(t, 2, notified, "fallback installs notify too")
}

// ============================================
// Stats Tests
// ============================================

func TestTotalValue(t *testing.T) {
	assert.Equal(t, "7.82", TotalValue(fixedItems()).StringFixed(2))
	assert.Equal(t, "0.00", TotalValue(nil).StringFixed(2))
}
