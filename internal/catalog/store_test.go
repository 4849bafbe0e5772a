package catalog

import (
	"testing"

	"storefront-engine/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() domain.Catalog {
	return domain.Catalog{
		Products: []domain.Product{
			{ID: 1, Name: "Trail Mug", Price: decimal.RequireFromString("9.99"), Category: "Kitchen", Rating: 4.5},
			{ID: 2, Name: "Desk Lamp", Price: decimal.RequireFromString("24.50"), Category: "Office", Rating: 3},
		},
		Categories: []string{"All", "Kitchen", "Office"},
		Reviews: []domain.Review{
			{ID: 10, ProductID: 1, Author: "Ann", Rating: 5, Comment: "Great", Date: "May 1, 2024"},
		},
	}
}

func TestNew_Valid(t *testing.T) {
	s, err := New(fixture())
	require.NoError(t, err)

	assert.Len(t, s.Products(), 2)
	assert.Equal(t, []string{"All", "Kitchen", "Office"}, s.Categories())
	assert.True(t, s.HasCategory("Office"))
	assert.False(t, s.HasCategory("Garden"))

	p, ok := s.Product(2)
	require.True(t, ok)
	assert.Equal(t, "Desk Lamp", p.Name)

	_, ok = s.Product(99)
	assert.False(t, ok)
}

func TestNew_DoesNotAliasFixture(t *testing.T) {
	c := fixture()
	s, err := New(c)
	require.NoError(t, err)

	c.Products[0].Name = "changed"
	got := s.Products()
	assert.Equal(t, "Trail Mug", got[0].Name)

	got[1].Name = "also changed"
	p, _ := s.Product(2)
	assert.Equal(t, "Desk Lamp", p.Name)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *domain.Catalog)
	}{
		{"missing All sentinel", func(c *domain.Catalog) { c.Categories = []string{"Kitchen", "Office"} }},
		{"duplicate id", func(c *domain.Catalog) { c.Products[1].ID = 1 }},
		{"negative price", func(c *domain.Catalog) { c.Products[0].Price = decimal.NewFromInt(-1) }},
		{"rating above five", func(c *domain.Catalog) { c.Products[0].Rating = 5.5 }},
		{"unknown category", func(c *domain.Catalog) { c.Products[0].Category = "Garden" }},
		{"product in All", func(c *domain.Catalog) { c.Products[0].Category = "All" }},
		{"orphan review", func(c *domain.Catalog) { c.Reviews[0].ProductID = 77 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fixture()
			tt.mutate(&c)
			_, err := New(c)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}
