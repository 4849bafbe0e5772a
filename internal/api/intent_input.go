package api

import (
	"fmt"

	"storefront-engine/internal/coordinator"
)

// IntentEnvelope is the transport-neutral form of an intent, shared by
// POST /api/v1/intents and the gRPC Dispatch method.
type IntentEnvelope struct {
	Intent     string `json:"intent" validate:"required,oneof=search select_category view_product add_to_cart update_cart_quantity remove_from_cart toggle_wishlist submit_review open_cart close_cart"`
	Term       string `json:"term" validate:"max=200"`
	Category   string `json:"category" validate:"max=100"`
	ProductID  *int64 `json:"product_id" validate:"omitempty,gt=0"`
	Quantity   *int   `json:"quantity"`
	FromDetail bool   `json:"from_detail"`
	Author     string `json:"author" validate:"max=100"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment" validate:"max=2000"`
}

// ToIntent converts a validated envelope into a coordinator intent.
func (e IntentEnvelope) ToIntent() (coordinator.Intent, error) {
	needID := func() (int64, error) {
		if e.ProductID == nil {
			return 0, fmt.Errorf("product_id is required for %s", e.Intent)
		}
		return *e.ProductID, nil
	}

	switch e.Intent {
	case "search":
		return coordinator.Search{Term: e.Term}, nil
	case "select_category":
		return coordinator.SelectCategory{Category: e.Category}, nil
	case "view_product":
		return coordinator.ViewProduct{ProductID: e.ProductID}, nil
	case "add_to_cart":
		id, err := needID()
		if err != nil {
			return nil, err
		}
		qty := 1
		if e.Quantity != nil {
			qty = *e.Quantity
		}
		return coordinator.AddToCart{ProductID: id, Quantity: qty, FromDetail: e.FromDetail}, nil
	case "update_cart_quantity":
		id, err := needID()
		if err != nil {
			return nil, err
		}
		if e.Quantity == nil {
			return nil, fmt.Errorf("quantity is required for %s", e.Intent)
		}
		return coordinator.UpdateCartQuantity{ProductID: id, Quantity: *e.Quantity}, nil
	case "remove_from_cart":
		id, err := needID()
		if err != nil {
			return nil, err
		}
		return coordinator.RemoveFromCart{ProductID: id}, nil
	case "toggle_wishlist":
		id, err := needID()
		if err != nil {
			return nil, err
		}
		return coordinator.ToggleWishlist{ProductID: id}, nil
	case "submit_review":
		id, err := needID()
		if err != nil {
			return nil, err
		}
		return coordinator.SubmitReview{ProductID: id, Author: e.Author, Rating: e.Rating, Comment: e.Comment}, nil
	case "open_cart":
		return coordinator.OpenCart{}, nil
	case "close_cart":
		return coordinator.CloseCart{}, nil
	}
	return nil, fmt.Errorf("unknown intent %q", e.Intent)
}
