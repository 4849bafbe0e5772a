package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront-engine/internal/domain"
)

// PostgresStore implements CatalogReader and SlotStore using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// --- CatalogReader Implementation ---

// LoadCatalog reads categories, products and seed reviews in their fixture order.
func (s *PostgresStore) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	categories, err := s.listCategories(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	products, err := s.listProducts(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	reviews, err := s.listReviews(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	return domain.Catalog{Products: products, Categories: categories, Reviews: reviews}, nil
}

func (s *PostgresStore) listCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM storefront.categories
		ORDER BY position ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: listCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: listCategories failed to scan category row: %w", err)
		}
		categories = append(categories, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listCategories iteration error: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) listProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, description, category, image_url, rating, review_count
		FROM storefront.products
		ORDER BY position ASC, id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: listProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		var description, imageURL sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &description, &p.Category, &imageURL, &p.Rating, &p.ReviewCount,
		); err != nil {
			return nil, fmt.Errorf("store: listProducts failed to scan product row: %w", err)
		}
		p.Description = description.String
		p.ImageURL = imageURL.String
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listProducts iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) listReviews(ctx context.Context) ([]domain.Review, error) {
	query := `
		SELECT id, product_id, author, rating, comment, date_label
		FROM storefront.reviews
		ORDER BY position ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: listReviews failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Author, &r.Rating, &r.Comment, &r.Date); err != nil {
			return nil, fmt.Errorf("store: listReviews failed to scan review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listReviews iteration error: %w", err)
	}
	return reviews, nil
}

// --- SlotStore Implementation ---

func (s *PostgresStore) ReadSlot(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value
		FROM storefront.kv_slots
		WHERE key = $1;
	`
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSlotNotFound
		}
		return "", fmt.Errorf("store: ReadSlot failed to scan row: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) WriteSlot(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO storefront.kv_slots (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP;
	`
	_, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" { // undefined_table
			return fmt.Errorf("store: WriteSlot: kv_slots table missing: %w", err)
		}
		return fmt.Errorf("store: WriteSlot failed to upsert slot: %w", err)
	}
	return nil
}

// Ping checks database connectivity for health reporting.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
