package coordinator

import (
	"github.com/shopspring/decimal"

	"storefront-engine/internal/domain"
	"storefront-engine/internal/engine"
)

// Snapshot is every derived view, recomputed from current state after each intent.
type Snapshot struct {
	SearchTerm       string         `json:"search_term"`
	SelectedCategory string         `json:"selected_category"`
	Heading          string         `json:"heading"`
	Categories       []string       `json:"categories"`
	Products         []ProductView  `json:"products"`
	Empty            bool           `json:"empty"`
	Cart             CartView       `json:"cart"`
	Wishlist         []int64        `json:"wishlist"`
	Viewing          *ProductDetail `json:"viewing,omitempty"`
}

// ProductView is a listed product with its wishlist membership.
type ProductView struct {
	domain.Product
	Wishlisted bool `json:"wishlisted"`
}

// ProductDetail is the open detail view with the product's reviews, newest first.
type ProductDetail struct {
	ProductView
	Reviews []domain.Review `json:"reviews"`
}

type CartLine struct {
	domain.CartItem
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Open       bool            `json:"open"`
	Items      []CartLine      `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Snapshot derives the full view from current state. Nothing here is cached.
func (c *Coordinator) Snapshot() Snapshot {
	visible := engine.Filter(c.catalog.Products(), c.category, c.searchTerm)
	products := make([]ProductView, 0, len(visible))
	for _, p := range visible {
		products = append(products, ProductView{Product: p, Wishlisted: c.wishlist.Contains(p.ID)})
	}

	items := c.cart.Items()
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, CartLine{CartItem: it, LineTotal: it.LineTotal()})
	}

	snap := Snapshot{
		SearchTerm:       c.searchTerm,
		SelectedCategory: c.category,
		Heading:          c.category + " Products",
		Categories:       c.catalog.Categories(),
		Products:         products,
		Empty:            len(products) == 0,
		Cart: CartView{
			Open:       c.cartOpen,
			Items:      lines,
			TotalItems: c.cart.TotalItems(),
			Subtotal:   c.cart.Subtotal(),
		},
		Wishlist: c.wishlist.IDs(),
	}

	if c.viewing != nil {
		if p, ok := c.catalog.Product(*c.viewing); ok {
			snap.Viewing = &ProductDetail{
				ProductView: ProductView{Product: p, Wishlisted: c.wishlist.Contains(p.ID)},
				Reviews:     c.reviews.For(p.ID),
			}
		}
	}
	return snap
}
