package store

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront-engine/internal/domain"
)

// fixtureFile mirrors the on-disk YAML layout. Prices are strings so they parse
// into exact decimals.
type fixtureFile struct {
	Categories []string `yaml:"categories"`
	Products   []struct {
		ID          int64   `yaml:"id"`
		Name        string  `yaml:"name"`
		Price       string  `yaml:"price"`
		Description string  `yaml:"description"`
		Category    string  `yaml:"category"`
		ImageURL    string  `yaml:"image_url"`
		Rating      float64 `yaml:"rating"`
		ReviewCount int     `yaml:"review_count"`
	} `yaml:"products"`
	Reviews []struct {
		ID        int64  `yaml:"id"`
		ProductID int64  `yaml:"product_id"`
		Author    string `yaml:"author"`
		Rating    int    `yaml:"rating"`
		Comment   string `yaml:"comment"`
		Date      string `yaml:"date"`
	} `yaml:"reviews"`
}

// FixtureStore reads the catalog from a YAML document.
type FixtureStore struct {
	open func() (io.ReadCloser, error)
}

// NewFixtureFile reads the catalog from the YAML file at path.
func NewFixtureFile(path string) *FixtureStore {
	return &FixtureStore{open: func() (io.ReadCloser, error) { return os.Open(path) }}
}

// NewFixtureReader reads the catalog from r. Intended for tests and embedded fixtures.
func NewFixtureReader(r io.Reader) *FixtureStore {
	return &FixtureStore{open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil }}
}

func (f *FixtureStore) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}
	rc, err := f.open()
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("store: open fixture: %w", err)
	}
	defer rc.Close()

	var doc fixtureFile
	if err := yaml.NewDecoder(rc).Decode(&doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", ErrFixtureInvalid, err)
	}

	c := domain.Catalog{
		Categories: doc.Categories,
		Products:   make([]domain.Product, 0, len(doc.Products)),
		Reviews:    make([]domain.Review, 0, len(doc.Reviews)),
	}
	for _, p := range doc.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("%w: product %d price %q: %v", ErrFixtureInvalid, p.ID, p.Price, err)
		}
		c.Products = append(c.Products, domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Price:       price,
			Description: p.Description,
			Category:    p.Category,
			ImageURL:    p.ImageURL,
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
		})
	}
	for _, r := range doc.Reviews {
		c.Reviews = append(c.Reviews, domain.Review{
			ID:        r.ID,
			ProductID: r.ProductID,
			Author:    r.Author,
			Rating:    r.Rating,
			Comment:   r.Comment,
			Date:      r.Date,
		})
	}
	return c, nil
}
