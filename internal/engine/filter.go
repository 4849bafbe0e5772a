// Package engine contains the storefront state transitions: catalog filtering,
// the cart, the wishlist and the review list. Every engine is a value type whose
// transitions return a new value and never mutate the receiver or its inputs.
package engine

import (
	"strings"

	"storefront-engine/internal/domain"
)

// Filter returns the products matching category and searchTerm, in catalog order.
// A product matches when category is "All" or equals its category, and its name
// contains searchTerm case-insensitively. The result is never nil, so an empty
// match can be told apart from "not filtered yet".
func Filter(products []domain.Product, category, searchTerm string) []domain.Product {
	term := strings.ToLower(searchTerm)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != domain.AllCategories && p.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}
