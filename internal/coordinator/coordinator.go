// Package coordinator owns all storefront state and routes user intents to the
// engines. It is the only place that holds mutable references to engine values.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"storefront-engine/internal/catalog"
	"storefront-engine/internal/domain"
	"storefront-engine/internal/engine"
	"storefront-engine/internal/store"
)

const defaultWriteTimeout = 2 * time.Second

// Options wires a Coordinator to its collaborators.
type Options struct {
	Catalog      *catalog.Store
	Slots        store.SlotStore
	SlotKey      string
	WriteTimeout time.Duration
	Clock        func() time.Time
	Logger       zerolog.Logger
}

// Coordinator is not safe for concurrent use; run it behind a Loop.
type Coordinator struct {
	log          zerolog.Logger
	catalog      *catalog.Store
	slots        store.SlotStore
	slotKey      string
	writeTimeout time.Duration
	clock        func() time.Time
	ids          *engine.IDSource

	searchTerm string
	category   string
	cart       engine.Cart
	wishlist   engine.Wishlist
	reviews    engine.Reviews
	viewing    *int64
	cartOpen   bool
}

// New builds the initial state and restores the wishlist from its slot. A
// missing, unreadable or malformed slot leaves the wishlist empty.
func New(ctx context.Context, opts Options) *Coordinator {
	c := &Coordinator{
		log:          opts.Logger.With().Str("component", "coordinator").Logger(),
		catalog:      opts.Catalog,
		slots:        opts.Slots,
		slotKey:      opts.SlotKey,
		writeTimeout: opts.WriteTimeout,
		clock:        opts.Clock,
		category:     domain.AllCategories,
		reviews:      engine.NewReviews(opts.Catalog.SeedReviews()),
	}
	if c.slotKey == "" {
		c.slotKey = "wishlist"
	}
	if c.writeTimeout <= 0 {
		c.writeTimeout = defaultWriteTimeout
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	c.ids = engine.NewIDSource(c.reviews.MaxID())
	c.wishlist = c.restoreWishlist(ctx)
	return c
}

func (c *Coordinator) restoreWishlist(ctx context.Context) engine.Wishlist {
	if c.slots == nil {
		return engine.Wishlist{}
	}
	raw, err := c.slots.ReadSlot(ctx, c.slotKey)
	if err != nil {
		if !errors.Is(err, store.ErrSlotNotFound) {
			c.log.Warn().Err(err).Str("slot", c.slotKey).Msg("wishlist restore failed, starting empty")
		}
		return engine.Wishlist{}
	}
	w, err := engine.TryRestore(raw)
	if err != nil {
		c.log.Warn().Err(err).Str("slot", c.slotKey).Msg("wishlist slot malformed, starting empty")
		return engine.Wishlist{}
	}
	c.log.Info().Int("items", w.Len()).Msg("wishlist restored")
	return w
}

// persistWishlist writes the full set; failures are logged and swallowed.
func (c *Coordinator) persistWishlist(ctx context.Context) {
	if c.slots == nil {
		return
	}
	raw, err := c.wishlist.Encode()
	if err != nil {
		c.log.Warn().Err(err).Msg("wishlist encode failed, skipping persist")
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.writeTimeout)
	defer cancel()
	if err := c.slots.WriteSlot(ctx, c.slotKey, raw); err != nil {
		c.log.Warn().Err(err).Str("slot", c.slotKey).Msg("wishlist persist failed")
	}
}

func (c *Coordinator) product(id int64) (domain.Product, error) {
	p, ok := c.catalog.Product(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	}
	return p, nil
}

// --- Intent handlers ---

func (c *Coordinator) Search(term string) {
	c.searchTerm = term
}

// SelectCategory rejects names outside the fixed category list.
func (c *Coordinator) SelectCategory(category string) error {
	if !c.catalog.HasCategory(category) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Unknown category %q.", category),
			Fields:  []string{"Category"},
		}
	}
	c.category = category
	return nil
}

// ViewProduct opens the detail view for id, or closes it when id is nil.
func (c *Coordinator) ViewProduct(id *int64) error {
	if id == nil {
		c.viewing = nil
		return nil
	}
	if _, err := c.product(*id); err != nil {
		return err
	}
	v := *id
	c.viewing = &v
	return nil
}

// AddToCart adds quantity units of the product. Adding from the detail view closes it.
func (c *Coordinator) AddToCart(productID int64, quantity int, fromDetail bool) error {
	p, err := c.product(productID)
	if err != nil {
		return err
	}
	c.cart = c.cart.Add(p, quantity)
	if fromDetail {
		c.viewing = nil
	}
	return nil
}

func (c *Coordinator) UpdateCartQuantity(productID int64, quantity int) {
	c.cart = c.cart.UpdateQuantity(productID, quantity)
}

func (c *Coordinator) RemoveFromCart(productID int64) {
	c.cart = c.cart.Remove(productID)
}

func (c *Coordinator) ToggleWishlist(ctx context.Context, productID int64) {
	c.wishlist = c.wishlist.Toggle(productID)
	c.persistWishlist(ctx)
}

// SubmitReview validates and prepends a review. Validation failures return a
// *domain.ValidationError and leave the list untouched.
func (c *Coordinator) SubmitReview(in engine.ReviewInput) (domain.Review, error) {
	if _, err := c.product(in.ProductID); err != nil {
		return domain.Review{}, err
	}
	now := c.clock()
	next, rv, err := c.reviews.Add(in, c.ids.Next(now), now)
	if err != nil {
		return domain.Review{}, err
	}
	c.reviews = next
	return rv, nil
}

func (c *Coordinator) OpenCart()  { c.cartOpen = true }
func (c *Coordinator) CloseCart() { c.cartOpen = false }

// --- Read accessors used by tests and snapshots ---

func (c *Coordinator) Cart() engine.Cart         { return c.cart }
func (c *Coordinator) Wishlist() engine.Wishlist { return c.wishlist }
func (c *Coordinator) Reviews() engine.Reviews   { return c.reviews }
