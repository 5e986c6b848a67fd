package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/example/shopfront/internal/catalog"
)

// EmptyMessage is the placeholder the consuming view must render when the
// cart has no entries, instead of an empty list.
const EmptyMessage = "Your cart is empty! Click 'Add' on any product to start shopping."

// Cart is an ordered multiset of item copies added by the shopper.
// Entries are copied by value, so later catalog mutations never
// retroactively alter items already in the cart. Duplicates are allowed.
type Cart struct {
	mu        sync.Mutex
	entries   []catalog.Item
	listeners []func()
}

func New() *Cart {
	return &Cart{}
}

// Add appends a copy of item. It always succeeds: no capacity limit,
// no duplicate check.
func (c *Cart) Add(item catalog.Item) {
	c.mu.Lock()
	c.entries = append(c.entries, item)
	c.mu.Unlock()
	c.notify()
}

// RemoveAt removes the entry at index. Out-of-bounds indices are a silent
// no-op; indices come from the rendered list and may be stale.
func (c *Cart) RemoveAt(index int) {
	c.mu.Lock()
	if index < 0 || index >= len(c.entries) {
		c.mu.Unlock()
		return
	}
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
	c.mu.Unlock()
	c.notify()
}

// Clear empties the cart, used after checkout or when navigating back
// to shopping.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()
	c.notify()
}

// Total recomputes the sum of entry prices from scratch; the running total
// is never incrementally drifted.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, item := range c.entries {
		total = total.Add(item.Price)
	}
	return total
}

// FormattedTotal renders the total with exactly two decimal places.
func (c *Cart) FormattedTotal() string {
	return c.Total().StringFixed(2)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Items returns a copy of the current entries in insertion order.
func (c *Cart) Items() []catalog.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]catalog.Item, len(c.entries))
	copy(out, c.entries)
	return out
}

// Subscribe registers a callback invoked after every cart change.
func (c *Cart) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Cart) notify() {
	c.mu.Lock()
	listeners := make([]func(), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
