// Package catalog holds the immutable product catalog the storefront engine reads from.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"storefront-engine/internal/domain"
)

var ErrInvalidCatalog = errors.New("catalog: invalid fixture")

// Store is a read-only view over a validated catalog fixture.
// Accessors hand out copies; the source collections are never mutated.
type Store struct {
	products   []domain.Product
	byID       map[int64]int
	categories []string
	reviews    []domain.Review
}

// New validates the fixture and copies it into a Store.
func New(c domain.Catalog) (*Store, error) {
	if !slices.Contains(c.Categories, domain.AllCategories) {
		return nil, fmt.Errorf("%w: categories must include %q", ErrInvalidCatalog, domain.AllCategories)
	}

	s := &Store{
		products:   slices.Clone(c.Products),
		byID:       make(map[int64]int, len(c.Products)),
		categories: slices.Clone(c.Categories),
		reviews:    slices.Clone(c.Reviews),
	}

	for i, p := range s.products {
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %d", ErrInvalidCatalog, p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %d has negative price", ErrInvalidCatalog, p.ID)
		}
		if p.Rating < 0 || p.Rating > 5 {
			return nil, fmt.Errorf("%w: product %d rating %.2f out of range", ErrInvalidCatalog, p.ID, p.Rating)
		}
		if p.ReviewCount < 0 {
			return nil, fmt.Errorf("%w: product %d has negative review count", ErrInvalidCatalog, p.ID)
		}
		if p.Category == domain.AllCategories || !slices.Contains(s.categories, p.Category) {
			return nil, fmt.Errorf("%w: product %d has unknown category %q", ErrInvalidCatalog, p.ID, p.Category)
		}
		s.byID[p.ID] = i
	}

	for _, r := range s.reviews {
		if _, ok := s.byID[r.ProductID]; !ok {
			return nil, fmt.Errorf("%w: review %d references unknown product %d", ErrInvalidCatalog, r.ID, r.ProductID)
		}
	}

	return s, nil
}

// Products returns the catalog in its original order.
func (s *Store) Products() []domain.Product {
	return slices.Clone(s.products)
}

// Product looks up a product by id.
func (s *Store) Product(id int64) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Categories returns the fixed category list, "All" included, in display order.
func (s *Store) Categories() []string {
	return slices.Clone(s.categories)
}

// HasCategory reports whether name is one of the fixed categories (including "All").
func (s *Store) HasCategory(name string) bool {
	return slices.Contains(s.categories, name)
}

// SeedReviews returns the initial review list.
func (s *Store) SeedReviews() []domain.Review {
	return slices.Clone(s.reviews)
}
