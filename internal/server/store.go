package server

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/example/shopfront/internal/catalog"
)

var ErrNotFound = errors.New("item not found")

// ItemInput is the client-supplied part of an item.
type ItemInput struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// ItemStore persists the item collection.
type ItemStore interface {
	List(ctx context.Context) ([]catalog.Item, error)
	Create(ctx context.Context, in ItemInput) (catalog.Item, error)
	Update(ctx context.Context, id int64, in ItemInput) (catalog.Item, error)
	Delete(ctx context.Context, id int64) error
}

// MemoryStore is the default in-process store, seeded with the demo
// catalog so a fresh server has something to show.
type MemoryStore struct {
	mu     sync.Mutex
	items  []catalog.Item
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for _, item := range catalog.SampleItems() {
		s.items = append(s.items, item)
		if item.ID >= s.nextID {
			s.nextID = item.ID + 1
		}
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, in ItemInput) (catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := catalog.Item{ID: s.nextID, Name: in.Name, Price: in.Price, Category: in.Category}
	s.nextID++
	s.items = append(s.items, item)
	return item, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, in ItemInput) (catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items[i] = catalog.Item{ID: id, Name: in.Name, Price: in.Price, Category: in.Category}
			return s.items[i], nil
		}
	}
	return catalog.Item{}, ErrNotFound
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
