package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is the record of a settled sale, appended once the atomic
// exchange of token and funds has been completed.
type Purchase struct {
	ID            uuid.UUID
	AssetContract string
	TokenID       uint64
	Price         uint64
	Seller        string
	Buyer         string
	SettledAt     int64
}

// NewPurchase returns the settlement record for the given listing bought
// by the given buyer.
func NewPurchase(listing *Listing, buyer string) (*Purchase, error) {
	if listing == nil || !listing.IsListed() {
		return nil, ErrListingNotFound
	}
	if len(buyer) <= 0 {
		return nil, ErrPurchaseInvalidBuyer
	}

	return &Purchase{
		ID:            uuid.New(),
		AssetContract: listing.AssetContract,
		TokenID:       listing.TokenID,
		Price:         listing.Price,
		Seller:        listing.Seller,
		Buyer:         buyer,
		SettledAt:     time.Now().Unix(),
	}, nil
}
