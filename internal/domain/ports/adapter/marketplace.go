package adapter

import (
	"context"

	"purchase-registry/internal/domain/model"
)

// Marketplace is the hex port for the Envato Marketplace API.
type Marketplace interface {
	// VerifyPurchase looks up a purchase code. It returns domain.ErrEmptyCode,
	// domain.ErrTransportFailure or domain.ErrInvalidCode on failure.
	VerifyPurchase(ctx context.Context, code string) (*model.PurchaseRecord, error)
	// ItemInfo fetches a catalog item by its numeric id.
	ItemInfo(ctx context.Context, itemID string) (*model.Item, error)
	// UserInfo fetches the public profile of a marketplace user.
	UserInfo(ctx context.Context, username string) (*model.MarketUser, error)
}
