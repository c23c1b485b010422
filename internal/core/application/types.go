package application

import (
	"github.com/shopspring/decimal"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
)

// ListingInfo is the portable view of an active listing returned by the
// read operations.
type ListingInfo struct {
	AssetContract string `json:"asset_contract"`
	TokenID       uint64 `json:"token_id"`
	Price         uint64 `json:"price"`
	Seller        string `json:"seller"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// PurchaseInfo is the portable view of a settled sale.
type PurchaseInfo struct {
	ID            string `json:"id"`
	AssetContract string `json:"asset_contract"`
	TokenID       uint64 `json:"token_id"`
	Price         uint64 `json:"price"`
	Seller        string `json:"seller"`
	Buyer         string `json:"buyer"`
	SettledAt     int64  `json:"settled_at"`
}

// MarketReport aggregates the settlement history of the marketplace.
type MarketReport struct {
	SalesCount    int                        `json:"sales_count"`
	TotalVolume   decimal.Decimal            `json:"total_volume"`
	AveragePrice  decimal.Decimal            `json:"average_price"`
	VolumeByAsset map[string]decimal.Decimal `json:"volume_by_asset"`
}

func listingInfo(l *domain.Listing) *ListingInfo {
	return &ListingInfo{
		AssetContract: l.AssetContract,
		TokenID:       l.TokenID,
		Price:         l.Price,
		Seller:        l.Seller,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func listingInfoList(listings []domain.Listing) []ListingInfo {
	list := make([]ListingInfo, 0, len(listings))
	for i := range listings {
		list = append(list, *listingInfo(&listings[i]))
	}
	return list
}

func purchaseInfoList(purchases []domain.Purchase) []PurchaseInfo {
	list := make([]PurchaseInfo, 0, len(purchases))
	for _, p := range purchases {
		list = append(list, PurchaseInfo{
			ID:            p.ID.String(),
			AssetContract: p.AssetContract,
			TokenID:       p.TokenID,
			Price:         p.Price,
			Seller:        p.Seller,
			Buyer:         p.Buyer,
			SettledAt:     p.SettledAt,
		})
	}
	return list
}
