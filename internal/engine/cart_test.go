package engine

import (
	"testing"

	"storefront-engine/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, price string) domain.Product {
	return domain.Product{ID: id, Name: "p", Price: decimal.RequireFromString(price), Category: "Misc"}
}

func TestCart_AddUpdateRemoveScenario(t *testing.T) {
	var cart Cart
	p := product(1, "9.99")

	cart = cart.Add(p, 1)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, 1, cart.Quantity(1))
	assert.Equal(t, "9.99", cart.Subtotal().StringFixed(2))

	cart = cart.Add(p, 1)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, 2, cart.Quantity(1))
	assert.Equal(t, "19.98", cart.Subtotal().StringFixed(2))

	cart = cart.UpdateQuantity(1, 0)
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, "0.00", cart.Subtotal().StringFixed(2))
	assert.Equal(t, 0, cart.TotalItems())
}

func TestCart_AddAccumulatesPerID(t *testing.T) {
	var cart Cart
	adds := []struct {
		id  int64
		qty int
	}{{1, 1}, {2, 3}, {1, 2}, {3, 1}, {2, 1}, {1, 5}}
	want := map[int64]int{}
	for _, a := range adds {
		cart = cart.Add(product(a.id, "1.00"), a.qty)
		want[a.id] += a.qty
	}

	seen := map[int64]bool{}
	for _, it := range cart.Items() {
		assert.False(t, seen[it.ID], "duplicate line for %d", it.ID)
		seen[it.ID] = true
		assert.Equal(t, want[it.ID], it.Quantity)
	}
	assert.Equal(t, []int64{1, 2, 3}, []int64{cart.Items()[0].ID, cart.Items()[1].ID, cart.Items()[2].ID})
	assert.Equal(t, 13, cart.TotalItems())
}

func TestCart_AddClampsQuantity(t *testing.T) {
	cart := Cart{}.Add(product(1, "2.00"), 0)
	assert.Equal(t, 1, cart.Quantity(1))
	cart = cart.Add(product(1, "2.00"), -4)
	assert.Equal(t, 2, cart.Quantity(1))
}

func TestCart_UpdateBelowOneEqualsRemove(t *testing.T) {
	base := Cart{}.Add(product(1, "1.00"), 2).Add(product(2, "3.00"), 1)
	removed := base.Remove(1)

	assert.Equal(t, removed.Items(), base.UpdateQuantity(1, 0).Items())
	assert.Equal(t, removed.Items(), base.UpdateQuantity(1, -5).Items())
}

func TestCart_UpdateIsAbsolute(t *testing.T) {
	cart := Cart{}.Add(product(1, "1.50"), 4).UpdateQuantity(1, 2)
	assert.Equal(t, 2, cart.Quantity(1))
	assert.Equal(t, "3.00", cart.Subtotal().StringFixed(2))
}

func TestCart_MissingIDsAreNoOps(t *testing.T) {
	cart := Cart{}.Add(product(1, "1.00"), 1)
	assert.Equal(t, cart.Items(), cart.Remove(42).Items())
	assert.Equal(t, cart.Items(), cart.UpdateQuantity(42, 3).Items())
}

func TestCart_TransitionsDoNotMutateReceiver(t *testing.T) {
	before := Cart{}.Add(product(1, "1.00"), 1)
	_ = before.Add(product(1, "1.00"), 5)
	_ = before.UpdateQuantity(1, 9)
	_ = before.Remove(1)
	assert.Equal(t, 1, before.Quantity(1))
	assert.Equal(t, 1, before.Len())
}

func TestCart_SubtotalMatchesRecomputation(t *testing.T) {
	cart := Cart{}
	cart = cart.Add(product(1, "9.99"), 3)
	cart = cart.Add(product(2, "0.10"), 7)
	cart = cart.UpdateQuantity(1, 2)
	cart = cart.Add(product(3, "120.00"), 1)
	cart = cart.Remove(3)
	cart = cart.Add(product(2, "0.10"), 1)

	expected := decimal.Zero
	for _, it := range cart.Items() {
		expected = expected.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		assert.Positive(t, it.Quantity)
	}
	assert.True(t, expected.Equal(cart.Subtotal()))
	assert.Equal(t, "20.78", cart.Subtotal().StringFixed(2))
}

func TestCart_ItemsNeverNil(t *testing.T) {
	assert.NotNil(t, Cart{}.Items())
	assert.Empty(t, Cart{}.Items())
}
