package catalog

import (
	"context"
	"log"
	"sync"
)

// Fetcher retrieves the remote item collection.
type Fetcher interface {
	ListItems(ctx context.Context) ([]Item, error)
}

// Store holds the last-fetched catalog snapshot. The snapshot is replaced
// wholesale on every successful refresh; there is no incremental patching.
type Store struct {
	mu        sync.Mutex
	fetcher   Fetcher
	items     []Item
	gen       uint64
	listeners []func()
}

func NewStore(fetcher Fetcher) *Store {
	return &Store{fetcher: fetcher}
}

// Refresh fetches the item collection and installs it as the new snapshot.
// On any failure (transport error or non-2xx) the fixed sample catalog is
// installed instead, so a disconnected demo keeps working; repeated failures
// just re-apply the same set. A response belonging to an older refresh than
// the latest one issued is discarded, so overlapping refreshes can never
// install stale data.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	items, err := s.fetcher.ListItems(ctx)
	if err != nil {
		log.Printf("[Catalog] refresh failed, falling back to sample catalog: %v", err)
		items = SampleItems()
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		log.Printf("[Catalog] discarding stale refresh response (generation %d, latest %d)", gen, s.gen)
		return
	}
	s.items = dedupe(items)
	s.mu.Unlock()

	s.notify()
}

// Get returns a copy of the current snapshot.
func (s *Store) Get() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Find looks up an item by id in the current snapshot.
func (s *Store) Find(id int64) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registers a callback invoked after every snapshot replacement,
// so dependent views can re-render.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// dedupe enforces the snapshot invariant that no two items share an id.
// The server owns id assignment, so duplicates indicate a bug on its side;
// later occurrences are dropped and logged.
func dedupe(items []Item) []Item {
	seen := make(map[int64]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			log.Printf("[Catalog] dropping duplicate item id %d (%s)", item.ID, item.Name)
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}
