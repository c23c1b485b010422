package domain

import "context"

// PurchaseRepository is the abstraction for any kind of database intended
// to persist the history of settled sales.
type PurchaseRepository interface {
	// AddPurchase appends a new settlement record.
	AddPurchase(ctx context.Context, purchase *Purchase) error
	// GetAllPurchases returns the whole settlement history.
	GetAllPurchases(ctx context.Context) ([]Purchase, error)
	// GetPurchasesByAsset returns the settlement history of an asset
	// contract.
	GetPurchasesByAsset(
		ctx context.Context, assetContract string,
	) ([]Purchase, error)
	// GetPurchasesBySeller returns all sales settled by the given seller.
	GetPurchasesBySeller(ctx context.Context, seller string) ([]Purchase, error)
}
