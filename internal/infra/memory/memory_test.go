//go:build !integration

package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/domain/model"
)

func TestRegistryRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewRegistryRepo()
	now := time.Now()

	e1, _ := model.NewRegistryEntry("user-1", "CODE-A", now)
	e2, _ := model.NewRegistryEntry("user-2", "CODE-A", now)
	e3, _ := model.NewRegistryEntry("user-1", "CODE-B", now.Add(time.Second))

	t.Run("should insert and find by exact code", func(t *testing.T) {
		if err := repo.Insert(ctx, nil, e1); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		got, err := repo.FindByCode(ctx, nil, "CODE-A")
		if err != nil {
			t.Fatalf("FindByCode failed: %v", err)
		}
		if got.OwnerID != "user-1" {
			t.Errorf("expected owner user-1, got %s", got.OwnerID)
		}
		if _, err := repo.FindByCode(ctx, nil, "code-a"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected case-sensitive lookup to miss, got %v", err)
		}
	})

	t.Run("should reject a second entry for the same code", func(t *testing.T) {
		if err := repo.Insert(ctx, nil, e2); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		if repo.Len() != 1 {
			t.Errorf("expected exactly one entry, got %d", repo.Len())
		}
	})

	t.Run("should list entries by owner oldest first", func(t *testing.T) {
		if err := repo.Insert(ctx, nil, e3); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		list, err := repo.ListByOwner(ctx, nil, "user-1")
		if err != nil {
			t.Fatalf("ListByOwner failed: %v", err)
		}
		if len(list) != 2 || list[0].Code != "CODE-A" || list[1].Code != "CODE-B" {
			t.Errorf("unexpected list %+v", list)
		}
	})
}

func TestKeyedLocker(t *testing.T) {
	t.Run("should serialize holders of the same key", func(t *testing.T) {
		l := NewKeyedLocker()
		var (
			mu      sync.Mutex
			inside  int
			maxSeen int
			wg      sync.WaitGroup
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := l.Lock(context.Background(), "k")
				if err != nil {
					t.Errorf("Lock failed: %v", err)
					return
				}
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				unlock()
			}()
		}
		wg.Wait()
		if maxSeen != 1 {
			t.Errorf("expected at most one holder at a time, saw %d", maxSeen)
		}
		if l.size() != 0 {
			t.Errorf("expected all slots to be released, got %d", l.size())
		}
	})

	t.Run("should not block different keys", func(t *testing.T) {
		l := NewKeyedLocker()
		unlockA, err := l.Lock(context.Background(), "a")
		if err != nil {
			t.Fatalf("Lock a failed: %v", err)
		}
		defer unlockA()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		unlockB, err := l.Lock(ctx, "b")
		if err != nil {
			t.Fatalf("expected key b to be free, got %v", err)
		}
		unlockB()
	})

	t.Run("should give up when the context ends", func(t *testing.T) {
		l := NewKeyedLocker()
		unlock, _ := l.Lock(context.Background(), "a")
		defer unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := l.Lock(ctx, "a"); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected DeadlineExceeded, got %v", err)
		}
	})

	t.Run("unlock is idempotent", func(t *testing.T) {
		l := NewKeyedLocker()
		unlock, _ := l.Lock(context.Background(), "a")
		unlock()
		unlock()
		if l.size() != 0 {
			t.Errorf("expected no slots, got %d", l.size())
		}
	})
}
