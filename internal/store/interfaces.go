package store

import (
	"context"

	"storefront-engine/internal/domain"
)

// CatalogReader loads the static catalog fixture at startup.
type CatalogReader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// SlotStore is a single-key string store used for best-effort persistence.
// ReadSlot returns ErrSlotNotFound when the key has never been written.
type SlotStore interface {
	ReadSlot(ctx context.Context, key string) (string, error)
	WriteSlot(ctx context.Context, key, value string) error
}
