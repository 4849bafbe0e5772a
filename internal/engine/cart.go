package engine

import (
	"slices"

	"github.com/shopspring/decimal"

	"storefront-engine/internal/domain"
)

// Cart is an ordered list of line items, unique by product id.
// The zero value is an empty cart.
type Cart struct {
	items []domain.CartItem
}

// Items returns a copy of the line items in insertion order.
func (c Cart) Items() []domain.CartItem {
	if c.items == nil {
		return []domain.CartItem{}
	}
	return slices.Clone(c.items)
}

// Len is the number of distinct lines.
func (c Cart) Len() int { return len(c.items) }

func (c Cart) index(productID int64) int {
	return slices.IndexFunc(c.items, func(it domain.CartItem) bool { return it.ID == productID })
}

// Quantity returns the quantity held for productID, or 0.
func (c Cart) Quantity(productID int64) int {
	if i := c.index(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// Add increments the existing line for p by quantity, or appends a new line.
// Quantities below 1 are treated as 1.
func (c Cart) Add(p domain.Product, quantity int) Cart {
	if quantity < 1 {
		quantity = 1
	}
	next := slices.Clone(c.items)
	if i := c.index(p.ID); i >= 0 {
		next[i].Quantity += quantity
		return Cart{items: next}
	}
	return Cart{items: append(next, domain.CartItem{Product: p, Quantity: quantity})}
}

// UpdateQuantity sets the line's quantity to exactly quantity. A quantity below 1
// delegates to Remove. Unknown ids leave the cart unchanged.
func (c Cart) UpdateQuantity(productID int64, quantity int) Cart {
	if quantity < 1 {
		return c.Remove(productID)
	}
	i := c.index(productID)
	if i < 0 {
		return c
	}
	next := slices.Clone(c.items)
	next[i].Quantity = quantity
	return Cart{items: next}
}

// Remove drops the line for productID; absent ids are a no-op.
func (c Cart) Remove(productID int64) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	next := make([]domain.CartItem, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	return Cart{items: next}
}

// TotalItems is the sum of all line quantities, recomputed on every call.
func (c Cart) TotalItems() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

// Subtotal is the sum of price * quantity over all lines, recomputed on every call.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal())
	}
	return total
}
