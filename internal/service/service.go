// Package service defines the backend-agnostic interface for list and item operations.
package service

import "context"

// Service defines the core operations consumed by the CLI and other glue.
// Every call reads the persisted state, repairs it if needed, and writes
// back a whole replacement. Callers never mutate State directly.
type Service interface {
	// GetState returns an invariant-satisfying copy of the persisted state.
	// It never fails.
	GetState(ctx context.Context) State

	// SetState normalizes and persists state. Returns false if the write failed.
	SetState(ctx context.Context, state State) bool

	// CreateList creates a list named name.
	// Returns nil (and no error) if the trimmed name is empty.
	CreateList(ctx context.Context, name string) (*List, error)

	// AddItem inserts an item at the front of the item sequence.
	// Returns nil (and no error) if the list is unknown or the title is empty.
	// If an equivalent item already exists in the list, that item is returned
	// and nothing is written.
	AddItem(ctx context.Context, params AddItemParams) (*Item, error)

	// DeleteMany removes items by ID and returns how many were removed.
	DeleteMany(ctx context.Context, ids []string) (int, error)

	// DeleteList removes a list, cascading to or reassigning its items.
	// Fails with a not-found or invariant error without mutating anything.
	DeleteList(ctx context.Context, listID string, opts DeleteListOptions) (DeleteListResult, error)
}
