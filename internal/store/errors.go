package store

import "errors"

// Predefined errors for store operations
var (
	ErrSlotNotFound   = errors.New("store: slot not found")
	ErrFixtureInvalid = errors.New("store: catalog fixture invalid")
)
