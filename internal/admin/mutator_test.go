package admin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/apiclient/mocks"
	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/feedback"
)

func statusError(code int) *apiclient.StatusError {
	return &apiclient.StatusError{Method: "POST", Path: "/api/items", Status: code}
}

func seedItems() []catalog.Item {
	return []catalog.Item{
		{ID: 1, Name: "Apple", Price: decimal.RequireFromString("6.71"), Category: "Fruits"},
		{ID: 2, Name: "Banana", Price: decimal.RequireFromString("1.11"), Category: "Fruits"},
	}
}

type fixture struct {
	client    *mocks.MockClient
	store     *catalog.Store
	notify    *feedback.Notifier
	mutator   *Mutator
	confirmed bool
}

func newFixture(t *testing.T, confirmAnswer bool) *fixture {
	t.Helper()

	f := &fixture{
		client: mocks.NewMockClient(seedItems()...),
		notify: feedback.NewNotifier(time.Minute),
	}
	f.store = catalog.NewStore(f.client)
	f.mutator = NewMutator(f.client, f.store, f.notify, func(prompt string) bool {
		f.confirmed = true
		return confirmAnswer
	})
	f.store.Refresh(context.Background())
	f.client.ListCalls = 0
	return f
}

func (f *fixture) flash(t *testing.T) string {
	t.Helper()
	msg, _ := f.notify.Current()
	return msg
}

// ============================================
// Create Tests
// ============================================

func TestMutator_Create_Success(t *testing.T) {
	f := newFixture(t, true)

	err := f.mutator.Create(context.Background(), "Mango", "3.50", "Fruits")

	require.NoError(t, err)
	require.Len(t, f.client.CreateCalls, 1)
	assert.Equal(t, "Mango", f.client.CreateCalls[0].Fields.Name)
	assert.Equal(t, 1, f.client.ListCalls, "create must trigger a full catalog refresh")

	_, ok := f.store.Find(3)
	assert.True(t, ok, "refreshed catalog contains the created item")
	assert.Equal(t, "Item added successfully!", f.flash(t))
}

func TestMutator_Create_InvalidInputIsNotDispatched(t *testing.T) {
	tests := []struct {
		name      string
		itemName  string
		priceText string
		category  string
	}{
		{"all fields empty", "", "NaN", ""},
		{"empty name", "", "1.00", "Fruits"},
		{"empty category", "Mango", "1.00", ""},
		{"non-numeric price", "Mango", "NaN", "Fruits"},
		{"empty price", "Mango", "", "Fruits"},
		{"negative price", "Mango", "-1.00", "Fruits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)

			err := f.mutator.Create(context.Background(), tt.itemName, tt.priceText, tt.category)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, f.client.CreateCalls, "no network call for invalid input")
			assert.Zero(t, f.client.ListCalls, "catalog unchanged")
			assert.Equal(t, 2, f.store.Len())
		})
	}
}

func TestMutator_Create_ServerRejection(t *testing.T) {
	f := newFixture(t, true)
	f.client.CreateErr = statusError(500)

	err := f.mutator.Create(context.Background(), "Mango", "3.50", "Fruits")

	require.Error(t, err)
	assert.Zero(t, f.client.ListCalls, "no refresh after a failed create")
	assert.Equal(t, "Error adding item", f.flash(t))
}

func TestMutator_Create_SuppressedDuringEditSession(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.mutator.BeginEdit(1))

	err := f.mutator.Create(context.Background(), "Mango", "3.50", "Fruits")

	assert.ErrorIs(t, err, ErrEditInProgress)
	assert.Empty(t, f.client.CreateCalls)

	f.mutator.CancelEdit()
	assert.NoError(t, f.mutator.Create(context.Background(), "Mango", "3.50", "Fruits"))
}

// ============================================
// Edit Session Tests
// ============================================

func TestMutator_BeginEdit_PopulatesForm(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.mutator.BeginEdit(2))

	form, ok := f.mutator.Session()
	require.True(t, ok)
	assert.Equal(t, int64(2), form.ID)
	assert.Equal(t, "Banana", form.Name)
	assert.Equal(t, "1.11", form.Price.StringFixed(2))
	assert.Equal(t, "Fruits", form.Category)
}

func TestMutator_BeginEdit_StaleIDIsNoOp(t *testing.T) {
	f := newFixture(t, true)

	err := f.mutator.BeginEdit(99)

	assert.ErrorIs(t, err, ErrItemNotFound)
	_, ok := f.mutator.Editing()
	assert.False(t, ok)
}

func TestMutator_BeginEdit_TwiceRepointsSingleSession(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.mutator.BeginEdit(1))
	require.NoError(t, f.mutator.BeginEdit(2))

	id, ok := f.mutator.Editing()
	require.True(t, ok)
	assert.Equal(t, int64(2), id, "session points at the second id only")
}

func TestMutator_CancelEdit(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.mutator.BeginEdit(1))

	f.mutator.CancelEdit()

	_, ok := f.mutator.Editing()
	assert.False(t, ok)
	assert.Empty(t, f.client.UpdateCalls, "cancel makes no network call")
}

// ============================================
// Update Tests
// ============================================

func TestMutator_Update_WithoutSessionIsNoOp(t *testing.T) {
	f := newFixture(t, true)

	err := f.mutator.Update(context.Background(), "Apple", "7.00", "Fruits")

	assert.ErrorIs(t, err, ErrNoEditSession)
	assert.Empty(t, f.client.UpdateCalls)
}

func TestMutator_Update_Success(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.mutator.BeginEdit(1))

	err := f.mutator.Update(context.Background(), "Green Apple", "7.25", "Fruits")

	require.NoError(t, err)
	require.Len(t, f.client.UpdateCalls, 1)
	assert.Equal(t, int64(1), f.client.UpdateCalls[0].ID)
	assert.Equal(t, "Green Apple", f.client.UpdateCalls[0].Fields.Name)

	_, ok := f.mutator.Editing()
	assert.False(t, ok, "success closes the edit session")

	item, found := f.store.Find(1)
	require.True(t, found)
	assert.Equal(t, "Green Apple", item.Name)
	assert.Equal(t, "Item updated successfully!", f.flash(t))
}

func TestMutator_Update_FailureKeepsSessionOpen(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.mutator.BeginEdit(1))
	f.client.UpdateErr = statusError(500)

	err := f.mutator.Update(context.Background(), "Green Apple", "7.25", "Fruits")

	require.Error(t, err)
	id, ok := f.mutator.Editing()
	require.True(t, ok, "session stays open so the admin can retry")
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "Error updating item", f.flash(t))
}

// ============================================
// Delete Tests
// ============================================

func TestMutator_Delete_DeclinedLeavesEverythingUnchanged(t *testing.T) {
	f := newFixture(t, false)

	err := f.mutator.Delete(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, f.confirmed, "confirmation must be asked")
	assert.Empty(t, f.client.DeleteCalls)
	assert.Equal(t, 2, f.store.Len())
}

func TestMutator_Delete_ConfirmedRefreshesCatalog(t *testing.T) {
	f := newFixture(t, true)

	err := f.mutator.Delete(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, f.client.DeleteCalls)

	_, ok := f.store.Find(1)
	assert.False(t, ok, "refreshed catalog no longer contains the deleted id")
	assert.Equal(t, "Item deleted successfully!", f.flash(t))
}

func TestMutator_Delete_ClosesEditSessionForDeletedItem(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.mutator.BeginEdit(1))

	require.NoError(t, f.mutator.Delete(context.Background(), 1))

	_, ok := f.mutator.Editing()
	assert.False(t, ok, "deleting the item under edit closes the session")
}

func TestMutator_Delete_KeepsUnrelatedEditSession(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.mutator.BeginEdit(2))

	require.NoError(t, f.mutator.Delete(context.Background(), 1))

	id, ok := f.mutator.Editing()
	require.True(t, ok)
	assert.Equal(t, int64(2), id)
}

func TestMutator_Delete_ServerRejection(t *testing.T) {
	f := newFixture(t, true)
	f.client.DeleteErr = statusError(500)

	err := f.mutator.Delete(context.Background(), 1)

	require.Error(t, err)
	assert.Zero(t, f.client.ListCalls, "no refresh after a failed delete")
	assert.Equal(t, "Error deleting item", f.flash(t))
}

// ============================================
// Serialization Tests
// ============================================

func TestMutator_SecondOperationWhileInFlightReturnsErrBusy(t *testing.T) {
	f := newFixture(t, true)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.client.ListFn = func(ctx context.Context) ([]catalog.Item, error) {
		once.Do(func() { close(started) })
		<-release
		return f.client.Items(), nil
	}

	done := make(chan error, 1)
	go func() {
		done <- f.mutator.Create(context.Background(), "Mango", "3.50", "Fruits")
	}()
	<-started

	// The first create is still refreshing; a double-click's second
	// submission must be rejected without touching the network.
	err := f.mutator.Create(context.Background(), "Mango", "3.50", "Fruits")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, f.client.CreateCalls, 1, "no duplicate submission")

	close(release)
	require.NoError(t, <-done)

	// Once settled, the guard is released.
	f.client.ListFn = nil
	assert.NoError(t, f.mutator.Create(context.Background(), "Papaya", "2.00", "Fruits"))
}
