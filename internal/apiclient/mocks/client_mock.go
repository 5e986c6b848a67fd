package mocks

import (
	"context"
	"sync"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/catalog"
)

// MockClient is an in-memory implementation of apiclient.Interface for
// testing. It behaves like a tiny server: created items get sequential ids
// and show up in subsequent ListItems calls.
type MockClient struct {
	mu     sync.Mutex
	items  []catalog.Item
	nextID int64

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	LoginErr  error

	LoginToken string

	// Optional overrides, for tests that need to block or race calls.
	ListFn func(ctx context.Context) ([]catalog.Item, error)

	// For tracking calls in tests
	ListCalls   int
	CreateCalls []CreateCall
	UpdateCalls []UpdateCall
	DeleteCalls []int64
	LoginCalls  []LoginCall
}

// CreateCall records parameters passed to CreateItem
type CreateCall struct {
	Fields apiclient.ItemFields
}

// UpdateCall records parameters passed to UpdateItem
type UpdateCall struct {
	ID     int64
	Fields apiclient.ItemFields
}

// LoginCall records parameters passed to Login
type LoginCall struct {
	Username string
	Password string
}

// NewMockClient creates a MockClient seeded with the given items.
func NewMockClient(seed ...catalog.Item) *MockClient {
	m := &MockClient{nextID: 1}
	for _, item := range seed {
		m.items = append(m.items, item)
		if item.ID >= m.nextID {
			m.nextID = item.ID + 1
		}
	}
	return m
}

func (m *MockClient) ListItems(ctx context.Context) ([]catalog.Item, error) {
	if m.ListFn != nil {
		m.mu.Lock()
		m.ListCalls++
		m.mu.Unlock()
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]catalog.Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MockClient) CreateItem(ctx context.Context, fields apiclient.ItemFields) (catalog.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, CreateCall{Fields: fields})
	if m.CreateErr != nil {
		return catalog.Item{}, m.CreateErr
	}
	item := catalog.Item{
		ID:       m.nextID,
		Name:     fields.Name,
		Price:    fields.Price,
		Category: fields.Category,
	}
	m.nextID++
	m.items = append(m.items, item)
	return item, nil
}

func (m *MockClient) UpdateItem(ctx context.Context, id int64, fields apiclient.ItemFields) (catalog.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{ID: id, Fields: fields})
	if m.UpdateErr != nil {
		return catalog.Item{}, m.UpdateErr
	}
	for i, item := range m.items {
		if item.ID == id {
			m.items[i] = catalog.Item{ID: id, Name: fields.Name, Price: fields.Price, Category: fields.Category}
			return m.items[i], nil
		}
	}
	return catalog.Item{}, &apiclient.StatusError{Method: "PUT", Path: "/api/items", Status: 404}
}

func (m *MockClient) DeleteItem(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return &apiclient.StatusError{Method: "DELETE", Path: "/api/items", Status: 404}
}

func (m *MockClient) Login(ctx context.Context, username, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCalls = append(m.LoginCalls, LoginCall{Username: username, Password: password})
	if m.LoginErr != nil {
		return "", m.LoginErr
	}
	return m.LoginToken, nil
}

// Items returns a copy of the mock's current item set.
func (m *MockClient) Items() []catalog.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]catalog.Item, len(m.items))
	copy(out, m.items)
	return out
}
