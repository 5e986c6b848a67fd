// Package admin orchestrates catalog mutations against the remote API.
package admin

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/feedback"
)

var (
	ErrBusy           = errors.New("another admin operation is in flight")
	ErrInvalidInput   = errors.New("invalid item input")
	ErrItemNotFound   = errors.New("item not found in catalog")
	ErrNoEditSession  = errors.New("no edit session active")
	ErrEditInProgress = errors.New("edit session active")
)

// ConfirmFunc asks the user a blocking yes/no question before a
// destructive action.
type ConfirmFunc func(prompt string) bool

// EditSession is the at-most-one in-flight edit. It carries the form
// snapshot populated from the catalog when the edit began.
type EditSession struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	Category string
}

// Mutator drives create/update/delete. Every operation follows the same
// shape: remote mutation, then a full catalog refresh, then form reset and
// feedback. The displayed list only ever changes after the refresh
// round-trip completes, so local and server state cannot diverge.
//
// Operations are serialized: a second mutation while one is pending
// returns ErrBusy without touching the network, which also rules out the
// duplicate submissions a double-click would otherwise cause.
type Mutator struct {
	client  apiclient.Interface
	store   *catalog.Store
	notify  *feedback.Notifier
	confirm ConfirmFunc

	mu       sync.Mutex
	inFlight bool
	session  *EditSession
}

func NewMutator(client apiclient.Interface, store *catalog.Store, notify *feedback.Notifier, confirm ConfirmFunc) *Mutator {
	return &Mutator{
		client:  client,
		store:   store,
		notify:  notify,
		confirm: confirm,
	}
}

// Create validates the form fields client-side and posts a new item.
// Invalid input returns ErrInvalidInput with no network call. While an
// edit session is active the create affordance is suppressed. On server
// rejection the caller's form state is left untouched so the admin can
// retry without retyping.
func (m *Mutator) Create(ctx context.Context, name, priceText, category string) error {
	fields, err := validateFields(name, priceText, category)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.session != nil {
		m.mu.Unlock()
		return ErrEditInProgress
	}
	m.mu.Unlock()

	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	if _, err := m.client.CreateItem(ctx, fields); err != nil {
		log.Printf("[Admin] create failed: %v", err)
		m.notify.Flash("Error adding item")
		return err
	}

	m.store.Refresh(ctx)
	m.notify.Flash("Item added successfully!")
	return nil
}

// BeginEdit opens an edit session for the item with the given id,
// populating the form from the current snapshot. A stale or deleted id is
// a no-op so an edit can never open against an item a concurrent admin
// already removed. Calling BeginEdit again repoints the single session.
func (m *Mutator) BeginEdit(id int64) error {
	item, ok := m.store.Find(id)
	if !ok {
		return ErrItemNotFound
	}

	m.mu.Lock()
	m.session = &EditSession{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
	}
	m.mu.Unlock()
	return nil
}

// CancelEdit closes the edit session without a network call.
func (m *Mutator) CancelEdit() {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
}

// Editing reports the id under edit, if any.
func (m *Mutator) Editing() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0, false
	}
	return m.session.ID, true
}

// Session returns a copy of the active edit session for form rendering.
func (m *Mutator) Session() (EditSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return EditSession{}, false
	}
	return *m.session, true
}

// Update sends the full replacement record for the item under edit.
// Without an active session it is a no-op. Success closes the session and
// refreshes; failure keeps the session open so the admin can retry.
func (m *Mutator) Update(ctx context.Context, name, priceText, category string) error {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()
	if session == nil {
		return ErrNoEditSession
	}

	fields, err := validateFields(name, priceText, category)
	if err != nil {
		return err
	}

	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	if _, err := m.client.UpdateItem(ctx, session.ID, fields); err != nil {
		log.Printf("[Admin] update of item %d failed: %v", session.ID, err)
		m.notify.Flash("Error updating item")
		return err
	}

	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()

	m.store.Refresh(ctx)
	m.notify.Flash("Item updated successfully!")
	return nil
}

// Delete asks for confirmation, then removes the item remotely. Declining
// leaves everything unchanged. If the deleted item is the one under edit,
// the session is closed before the refresh round-trip begins, so the stale
// form can never dispatch an update against the gone id.
func (m *Mutator) Delete(ctx context.Context, id int64) error {
	if m.confirm != nil && !m.confirm("Are you sure you want to delete this item?") {
		return nil
	}

	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	if err := m.client.DeleteItem(ctx, id); err != nil {
		log.Printf("[Admin] delete of item %d failed: %v", id, err)
		m.notify.Flash("Error deleting item")
		return err
	}

	m.mu.Lock()
	if m.session != nil && m.session.ID == id {
		m.session = nil
	}
	m.mu.Unlock()

	m.store.Refresh(ctx)
	m.notify.Flash("Item deleted successfully!")
	return nil
}

func (m *Mutator) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrBusy
	}
	m.inFlight = true
	return nil
}

func (m *Mutator) end() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

func validateFields(name, priceText, category string) (apiclient.ItemFields, error) {
	if name == "" || category == "" {
		return apiclient.ItemFields{}, ErrInvalidInput
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil || price.IsNegative() {
		return apiclient.ItemFields{}, ErrInvalidInput
	}
	return apiclient.ItemFields{Name: name, Price: price, Category: category}, nil
}
