package engine

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Wishlist is an insertion-ordered set of product ids. The zero value is empty.
type Wishlist struct {
	ids []int64
}

// NewWishlist builds a wishlist from ids, dropping duplicates after their first occurrence.
func NewWishlist(ids ...int64) Wishlist {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return Wishlist{ids: out}
}

// IDs returns the members in insertion order. Never nil.
func (w Wishlist) IDs() []int64 {
	if w.ids == nil {
		return []int64{}
	}
	return slices.Clone(w.ids)
}

// Len is the number of wishlisted ids.
func (w Wishlist) Len() int { return len(w.ids) }

// Contains is a pure membership check.
func (w Wishlist) Contains(productID int64) bool {
	return slices.Contains(w.ids, productID)
}

// Toggle removes productID if present, otherwise appends it.
func (w Wishlist) Toggle(productID int64) Wishlist {
	if i := slices.Index(w.ids, productID); i >= 0 {
		next := make([]int64, 0, len(w.ids)-1)
		next = append(next, w.ids[:i]...)
		next = append(next, w.ids[i+1:]...)
		return Wishlist{ids: next}
	}
	next := make([]int64, 0, len(w.ids)+1)
	next = append(next, w.ids...)
	return Wishlist{ids: append(next, productID)}
}

// Encode serializes the full set as a JSON array of ids, e.g. "[42]" or "[]".
func (w Wishlist) Encode() (string, error) {
	b, err := json.Marshal(w.IDs())
	if err != nil {
		return "", fmt.Errorf("encode wishlist: %w", err)
	}
	return string(b), nil
}

// TryRestore parses a persisted slot. Empty input yields an empty wishlist with no
// error. Malformed content yields an empty wishlist together with the parse error,
// so callers can log it and carry on with the default.
func TryRestore(raw string) (Wishlist, error) {
	if raw == "" {
		return Wishlist{}, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return Wishlist{}, fmt.Errorf("decode wishlist: %w", err)
	}
	return NewWishlist(ids...), nil
}
