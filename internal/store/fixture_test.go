package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixture = `
categories: [All, Books]
products:
  - id: 4
    name: The Pragmatic Gardener
    price: "18.99"
    category: Books
    rating: 4.0
    review_count: 1
reviews:
  - id: 9
    product_id: 4
    author: Lee
    rating: 4
    comment: Handy
    date: May 1, 2024
`

func TestFixtureStore_LoadCatalog(t *testing.T) {
	c, err := NewFixtureReader(strings.NewReader(sampleFixture)).LoadCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"All", "Books"}, c.Categories)
	require.Len(t, c.Products, 1)
	assert.Equal(t, int64(4), c.Products[0].ID)
	assert.Equal(t, "18.99", c.Products[0].Price.StringFixed(2))
	require.Len(t, c.Reviews, 1)
	assert.Equal(t, "May 1, 2024", c.Reviews[0].Date)
}

func TestFixtureStore_BadPrice(t *testing.T) {
	doc := strings.Replace(sampleFixture, `"18.99"`, `"cheap"`, 1)
	_, err := NewFixtureReader(strings.NewReader(doc)).LoadCatalog(context.Background())
	assert.True(t, errors.Is(err, ErrFixtureInvalid))
}

func TestFixtureStore_MalformedYAML(t *testing.T) {
	_, err := NewFixtureReader(strings.NewReader("products: [")).LoadCatalog(context.Background())
	assert.True(t, errors.Is(err, ErrFixtureInvalid))
}

func TestFixtureStore_MissingFile(t *testing.T) {
	_, err := NewFixtureFile("/nonexistent/catalog.yaml").LoadCatalog(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFixtureInvalid))
}

func TestFixtureStore_ShippedFixture(t *testing.T) {
	c, err := NewFixtureFile("../../fixtures/catalog.yaml").LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Contains(t, c.Categories, "All")
	assert.NotEmpty(t, c.Products)
}
