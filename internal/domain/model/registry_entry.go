package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"purchase-registry/internal/domain"
)

// RegistryEntry binds a purchase code to the identity that first claimed it.
// Entries are never mutated.
type RegistryEntry struct {
	ID        string
	OwnerID   string
	Code      string
	CreatedAt time.Time
}

// NewRegistryEntry creates a new entry with a time-ordered ID.
func NewRegistryEntry(ownerID, code string, now time.Time) (*RegistryEntry, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if code == "" {
		return nil, domain.ErrEmptyCode
	}
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &RegistryEntry{
		ID:        id.String(),
		OwnerID:   ownerID,
		Code:      code,
		CreatedAt: now.UTC(),
	}, nil
}
