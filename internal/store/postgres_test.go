package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a mock DB and PostgresStore for testing
func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(db)
	require.NotNil(t, store, "Store should not be nil")

	return db, mock, store
}

var (
	categoriesQuery = regexp.QuoteMeta(`SELECT name FROM storefront.categories`)
	productsQuery   = regexp.QuoteMeta(`SELECT id, name, price, description, category, image_url, rating, review_count FROM storefront.products`)
	reviewsQuery    = regexp.QuoteMeta(`SELECT id, product_id, author, rating, comment, date_label FROM storefront.reviews`)
)

func TestPostgresStore_LoadCatalog(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(categoriesQuery).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("All").AddRow("Books"))
	mock.ExpectQuery(productsQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "description", "category", "image_url", "rating", "review_count"}).
			AddRow(int64(4), "The Pragmatic Gardener", "18.99", "Guide", "Books", nil, 4.0, int64(1)))
	mock.ExpectQuery(reviewsQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "author", "rating", "comment", "date_label"}).
			AddRow(int64(9), int64(4), "Lee", int64(4), "Handy", "May 1, 2024"))

	c, err := store.LoadCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"All", "Books"}, c.Categories)
	require.Len(t, c.Products, 1)
	assert.Equal(t, "18.99", c.Products[0].Price.StringFixed(2))
	assert.Equal(t, "Guide", c.Products[0].Description)
	assert.Equal(t, "", c.Products[0].ImageURL)
	assert.Equal(t, 1, c.Products[0].ReviewCount)
	require.Len(t, c.Reviews, 1)
	assert.Equal(t, "Lee", c.Reviews[0].Author)
	assert.Equal(t, "May 1, 2024", c.Reviews[0].Date)

	require.NoError(t, mock.ExpectationsWereMet(), "SQLmock expectations were not met")
}

func TestPostgresStore_LoadCatalog_QueryError(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(categoriesQuery).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("All"))
	mock.ExpectQuery(productsQuery).WillReturnError(errors.New("connection reset"))

	_, err := store.LoadCatalog(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listProducts")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReadSlot(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`SELECT value FROM storefront.kv_slots WHERE key = $1;`)
	mock.ExpectQuery(query).WithArgs("wishlist").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("[3,1]"))

	v, err := store.ReadSlot(context.Background(), "wishlist")
	require.NoError(t, err)
	assert.Equal(t, "[3,1]", v)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReadSlot_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT value`).WithArgs("wishlist").WillReturnError(sql.ErrNoRows)

	_, err := store.ReadSlot(context.Background(), "wishlist")
	assert.True(t, errors.Is(err, ErrSlotNotFound), "Error should be ErrSlotNotFound")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_WriteSlot(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO storefront.kv_slots`).WithArgs("wishlist", "[42]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.WriteSlot(context.Background(), "wishlist", "[42]"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_WriteSlot_MissingTable(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO storefront.kv_slots`).WithArgs("wishlist", "[]").
		WillReturnError(&pq.Error{Code: "42P01"})

	err := store.WriteSlot(context.Background(), "wishlist", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kv_slots table missing")

	require.NoError(t, mock.ExpectationsWereMet())
}
