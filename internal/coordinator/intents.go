package coordinator

import (
	"context"

	"storefront-engine/internal/engine"
)

// Intent is a discrete user request. Each intent performs exactly one state
// transition when applied.
type Intent interface {
	Name() string
	apply(ctx context.Context, c *Coordinator) error
}

type Search struct{ Term string }

type SelectCategory struct{ Category string }

// ViewProduct opens the detail view; a nil ProductID closes it.
type ViewProduct struct{ ProductID *int64 }

type AddToCart struct {
	ProductID  int64
	Quantity   int
	FromDetail bool
}

type UpdateCartQuantity struct {
	ProductID int64
	Quantity  int
}

type RemoveFromCart struct{ ProductID int64 }

type ToggleWishlist struct{ ProductID int64 }

type SubmitReview struct {
	ProductID int64
	Author    string
	Rating    int
	Comment   string
}

type OpenCart struct{}

type CloseCart struct{}

func (Search) Name() string             { return "search" }
func (SelectCategory) Name() string     { return "select_category" }
func (ViewProduct) Name() string        { return "view_product" }
func (AddToCart) Name() string          { return "add_to_cart" }
func (UpdateCartQuantity) Name() string { return "update_cart_quantity" }
func (RemoveFromCart) Name() string     { return "remove_from_cart" }
func (ToggleWishlist) Name() string     { return "toggle_wishlist" }
func (SubmitReview) Name() string       { return "submit_review" }
func (OpenCart) Name() string           { return "open_cart" }
func (CloseCart) Name() string          { return "close_cart" }

func (i Search) apply(_ context.Context, c *Coordinator) error {
	c.Search(i.Term)
	return nil
}

func (i SelectCategory) apply(_ context.Context, c *Coordinator) error {
	return c.SelectCategory(i.Category)
}

func (i ViewProduct) apply(_ context.Context, c *Coordinator) error {
	return c.ViewProduct(i.ProductID)
}

func (i AddToCart) apply(_ context.Context, c *Coordinator) error {
	return c.AddToCart(i.ProductID, i.Quantity, i.FromDetail)
}

func (i UpdateCartQuantity) apply(_ context.Context, c *Coordinator) error {
	c.UpdateCartQuantity(i.ProductID, i.Quantity)
	return nil
}

func (i RemoveFromCart) apply(_ context.Context, c *Coordinator) error {
	c.RemoveFromCart(i.ProductID)
	return nil
}

func (i ToggleWishlist) apply(ctx context.Context, c *Coordinator) error {
	c.ToggleWishlist(ctx, i.ProductID)
	return nil
}

func (i SubmitReview) apply(_ context.Context, c *Coordinator) error {
	_, err := c.SubmitReview(engine.ReviewInput{
		ProductID: i.ProductID,
		Author:    i.Author,
		Rating:    i.Rating,
		Comment:   i.Comment,
	})
	return err
}

func (OpenCart) apply(_ context.Context, c *Coordinator) error {
	c.OpenCart()
	return nil
}

func (CloseCart) apply(_ context.Context, c *Coordinator) error {
	c.CloseCart()
	return nil
}
