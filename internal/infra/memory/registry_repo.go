package memory

import (
	"context"
	"sort"
	"sync"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/domain/model"
	"purchase-registry/internal/domain/ports/repository"
)

var _ repository.RegistryRepository = (*RegistryRepo)(nil)

// RegistryRepo is an in-process registry used in dev mode and tests.
// The code map doubles as the uniqueness constraint.
type RegistryRepo struct {
	mu     sync.RWMutex
	byCode map[string]*model.RegistryEntry
}

func NewRegistryRepo() *RegistryRepo {
	return &RegistryRepo{byCode: make(map[string]*model.RegistryEntry)}
}

func (r *RegistryRepo) FindByCode(ctx context.Context, _ repository.Tx, code string) (*model.RegistryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *RegistryRepo) Insert(ctx context.Context, _ repository.Tx, entry *model.RegistryEntry) error {
	if entry == nil || entry.Code == "" {
		return domain.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[entry.Code]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *entry
	r.byCode[entry.Code] = &cp
	return nil
}

func (r *RegistryRepo) ListByOwner(ctx context.Context, _ repository.Tx, ownerID string) ([]*model.RegistryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.RegistryEntry
	for _, e := range r.byCode {
		if e.OwnerID == ownerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Len reports the number of stored entries.
func (r *RegistryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}
