// Package view holds the projection shared by the shopper and admin views.
package view

import (
	"strings"

	"github.com/example/shopfront/internal/catalog"
)

// Criteria is the transient filter state, recomputed per keystroke or
// selection change. An empty Category matches any category.
type Criteria struct {
	SearchText string
	Category   string
}

// Filter returns the items matching the criteria, preserving catalog order.
// Both predicates are AND-combined: category equality (empty = any) and
// case-insensitive substring match on the name. No matches yields an empty
// sequence, never an error. Both views call this one function.
func Filter(items []catalog.Item, c Criteria) []catalog.Item {
	needle := strings.ToLower(c.SearchText)
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if c.Category != "" && item.Category != c.Category {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}
