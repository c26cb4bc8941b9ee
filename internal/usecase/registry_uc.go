// File: internal/usecase/registry_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/domain/model"
	"purchase-registry/internal/domain/ports/repository"
	"purchase-registry/internal/infra/logging"
	"purchase-registry/internal/infra/metrics"
)

// Compile-time check
var _ RegistryUseCase = (*registryUC)(nil)

type RegistryUseCase interface {
	// Attach binds code to identity if the code was never registered and the
	// marketplace accepts it. Verifier errors are returned unchanged.
	Attach(ctx context.Context, identity, code string) error
	// Codes lists the purchase codes bound to identity, oldest first.
	Codes(ctx context.Context, identity string) ([]string, error)
}

type registryUC struct {
	repo     repository.RegistryRepository
	locker   repository.Locker
	verifier PurchaseVerifier
	now      func() time.Time
	log      *zerolog.Logger
	dev      bool
}

func NewRegistryUseCase(repo repository.RegistryRepository, locker repository.Locker, verifier PurchaseVerifier, logger *zerolog.Logger, dev bool) *registryUC {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &registryUC{repo: repo, locker: locker, verifier: verifier, now: time.Now, log: logger, dev: dev}
}

func (u *registryUC) Attach(ctx context.Context, identity, code string) (err error) {
	defer logging.TraceDuration(u.log, "RegistryUC.Attach")()
	l := logging.With(ctx, u.log)
	defer func() { metrics.IncAttach(attachResult(err)) }()

	if code == "" {
		return domain.ErrEmptyCode
	}
	if identity == "" {
		return domain.ErrInvalidArgument
	}

	// Same-code callers queue here; the loser re-reads the registry after the
	// winner has committed and sees the duplicate.
	unlock, err := u.locker.Lock(ctx, code)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %w", domain.ErrCodeBusy, err)
		}
		return fmt.Errorf("lock purchase code: %w", err)
	}
	defer unlock()

	existing, err := u.repo.FindByCode(ctx, nil, code)
	switch {
	case err == nil:
		l.Info().Str("code", logging.Redact(code, u.dev)).Str("owner", existing.OwnerID).Msg("purchase code already registered")
		return domain.ErrCodeAlreadyRegistered
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("find purchase code: %w", err)
	}

	if _, err := u.verifier.Verify(ctx, code, false); err != nil {
		return err
	}

	entry, err := model.NewRegistryEntry(identity, code, u.now())
	if err != nil {
		return err
	}
	if err := u.repo.Insert(ctx, nil, entry); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.ErrCodeAlreadyRegistered
		}
		return fmt.Errorf("insert purchase code: %w", err)
	}

	l.Info().Str("code", logging.Redact(code, u.dev)).Str("entry_id", entry.ID).Msg("purchase code registered")
	return nil
}

func (u *registryUC) Codes(ctx context.Context, identity string) ([]string, error) {
	if identity == "" {
		return nil, domain.ErrInvalidArgument
	}
	entries, err := u.repo.ListByOwner(ctx, nil, identity)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		codes = append(codes, e.Code)
	}
	return codes, nil
}

func attachResult(err error) string {
	switch {
	case err == nil:
		return "attached"
	case errors.Is(err, domain.ErrCodeAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, domain.ErrEmptyCode), errors.Is(err, domain.ErrInvalidCode), errors.Is(err, domain.ErrInvalidArgument):
		return "rejected"
	default:
		return "error"
	}
}
