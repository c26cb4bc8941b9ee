//go:build !integration

package postgres

import (
	"errors"
	"testing"

	"purchase-registry/internal/domain"
)

func TestGetExecutor(t *testing.T) {
	t.Run("should reject nil tx without a pool", func(t *testing.T) {
		if _, err := getExecutor(nil, nil); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should reject unknown handle types", func(t *testing.T) {
		if _, err := getExecutor(nil, "not-a-tx"); !errors.Is(err, domain.ErrInvalidExecContext) {
			t.Fatalf("expected ErrInvalidExecContext, got %v", err)
		}
	})
}
