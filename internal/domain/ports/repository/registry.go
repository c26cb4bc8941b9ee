package repository

import (
	"context"

	"purchase-registry/internal/domain/model"
)

// RegistryRepository is the port for the purchase-code registry.
// Implementations MUST reject a second entry for the same code with
// domain.ErrAlreadyExists, independently of any lock held by the caller.
type RegistryRepository interface {
	// FindByCode returns the entry for code (exact, case-sensitive) or domain.ErrNotFound.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.RegistryEntry, error)
	// Insert stores a new entry.
	Insert(ctx context.Context, tx Tx, entry *model.RegistryEntry) error
	// ListByOwner returns all entries bound to ownerID, oldest first.
	ListByOwner(ctx context.Context, tx Tx, ownerID string) ([]*model.RegistryEntry, error)
}
