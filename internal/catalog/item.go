package catalog

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The items API speaks bare JSON numbers for prices.
	decimal.MarshalJSONWithoutQuotes = true
}

// Item is one entry of the remote item collection. Server-assigned id,
// immutable from the client side except through admin round-trips.
type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// SampleItems returns the built-in demo catalog installed whenever the
// items API cannot be reached, so the UI stays usable disconnected.
func SampleItems() []Item {
	return []Item{
		{ID: 1, Name: "Apple", Price: decimal.RequireFromString("6.71"), Category: "Fruits"},
		{ID: 2, Name: "Banana", Price: decimal.RequireFromString("1.11"), Category: "Fruits"},
		{ID: 3, Name: "Red meat", Price: decimal.RequireFromString("8.00"), Category: "Meat"},
		{ID: 4, Name: "Chicken", Price: decimal.RequireFromString("6.00"), Category: "Meat"},
		{ID: 5, Name: "Cucumber", Price: decimal.RequireFromString("16.50"), Category: "Vegetables"},
		{ID: 6, Name: "Carrot", Price: decimal.RequireFromString("2.87"), Category: "Vegetables"},
	}
}

// TotalValue sums the prices of all items, for the admin stats panel.
func TotalValue(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}
