// File: internal/usecase/purchase_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/domain/model"
	"purchase-registry/internal/domain/ports/adapter"
	"purchase-registry/internal/infra/logging"
)

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

// PurchaseVerifier is the slice of PurchaseUseCase the registry depends on.
type PurchaseVerifier interface {
	// Verify checks code against the marketplace. With wantDetails=false a nil
	// record and nil error mean "valid".
	Verify(ctx context.Context, code string, wantDetails bool) (*model.PurchaseRecord, error)
}

type PurchaseUseCase interface {
	PurchaseVerifier
	// Status derives the support status of rec at the current clock.
	Status(rec *model.PurchaseRecord) model.SupportStatus
	// Summaries verifies every code in detailed mode, preserving input order.
	// Per-code failures are reported inside the summaries.
	Summaries(ctx context.Context, codes []string) ([]model.PurchaseSummary, error)
	ItemInfo(ctx context.Context, itemID string) (*model.Item, error)
	UserInfo(ctx context.Context, username string) (*model.MarketUser, error)
}

type purchaseUC struct {
	market      adapter.Marketplace
	concurrency int
	now         func() time.Time
	log         *zerolog.Logger
}

// NewPurchaseUseCase wires the marketplace port. clock may be nil (time.Now).
func NewPurchaseUseCase(market adapter.Marketplace, concurrency int, clock func() time.Time, logger *zerolog.Logger) *purchaseUC {
	if concurrency <= 0 {
		concurrency = 1
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &purchaseUC{market: market, concurrency: concurrency, now: clock, log: logger}
}

func (u *purchaseUC) Verify(ctx context.Context, code string, wantDetails bool) (*model.PurchaseRecord, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.Verify")()

	if code == "" {
		return nil, domain.ErrEmptyCode
	}
	rec, err := u.market.VerifyPurchase(ctx, code)
	if err != nil {
		return nil, err
	}
	if !wantDetails {
		return nil, nil
	}
	return rec, nil
}

func (u *purchaseUC) Status(rec *model.PurchaseRecord) model.SupportStatus {
	return rec.SupportStatus(u.now())
}

func (u *purchaseUC) Summaries(ctx context.Context, codes []string) ([]model.PurchaseSummary, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.Summaries")()

	out := make([]model.PurchaseSummary, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, code := range codes {
		g.Go(func() error {
			out[i].Code = code
			rec, err := u.Verify(gctx, code, true)
			if err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Record = rec
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// evaluated once, after every call has returned
	now := u.now()
	for i := range out {
		if out[i].Record != nil {
			out[i].Status = out[i].Record.SupportStatus(now)
		}
	}
	return out, nil
}

func (u *purchaseUC) ItemInfo(ctx context.Context, itemID string) (*model.Item, error) {
	return u.market.ItemInfo(ctx, itemID)
}

func (u *purchaseUC) UserInfo(ctx context.Context, username string) (*model.MarketUser, error) {
	return u.market.UserInfo(ctx, username)
}
