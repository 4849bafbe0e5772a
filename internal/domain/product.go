package domain

import (
	"github.com/shopspring/decimal"
)

// AllCategories is the category sentinel meaning "no category filter".
const AllCategories = "All"

// ReviewDateLayout renders review dates in the long en-US form, e.g. "March 4, 2025".
const ReviewDateLayout = "January 2, 2006"

// Product represents a purchasable item in the catalog.
// The json tags correspond to the fields exposed in snapshots and API responses.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Rating      float64         `json:"rating"`       // 0..5
	ReviewCount int             `json:"review_count"`
}

// CartItem is a line item: a product together with its purchase quantity.
// Identity for lookups is the embedded product id.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price * quantity for the line.
func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Review is a customer review attached to a product. Reviews are append-only.
type Review struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Author    string `json:"author"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Date      string `json:"date"`
}

// Catalog is the externally supplied fixture the engine consumes read-only:
// products, the ordered category list (including AllCategories) and the seed reviews.
type Catalog struct {
	Products   []Product
	Categories []string
	Reviews    []Review
}
