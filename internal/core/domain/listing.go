package domain

import (
	"fmt"
	"time"
)

// Listing is the entity representing an active sale offer for a single
// token of some asset contract. The marketplace never takes custody of
// the token nor of the funds, a Listing only records the offer terms.
type Listing struct {
	AssetContract string
	TokenID       uint64
	Price         uint64
	Seller        string
	CreatedAt     int64
	UpdatedAt     int64
}

// NewListing returns a new Listing after validating the offer terms.
// The zero price is reserved to mean "not listed" and is never a valid
// sale price.
func NewListing(
	assetContract string, tokenID, price uint64, seller string,
) (*Listing, error) {
	if len(assetContract) <= 0 {
		return nil, ErrListingInvalidAsset
	}
	if price <= 0 {
		return nil, ErrListingInvalidPrice
	}
	if len(seller) <= 0 {
		return nil, ErrListingInvalidSeller
	}

	now := time.Now().Unix()
	return &Listing{
		AssetContract: assetContract,
		TokenID:       tokenID,
		Price:         price,
		Seller:        seller,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Key returns the unique storage key of the listing, composed by the
// asset contract and the token id.
func (l *Listing) Key() string {
	return ListingKey(l.AssetContract, l.TokenID)
}

// IsListed returns whether the listing represents an active offer.
func (l *Listing) IsListed() bool {
	return l.Price > 0
}

// ChangePrice updates the sale price of the listing. The seller is
// immutable for the whole life of a listing, the price is the only
// mutable field.
func (l *Listing) ChangePrice(newPrice uint64) error {
	if newPrice <= 0 {
		return ErrListingInvalidPrice
	}
	l.Price = newPrice
	l.UpdatedAt = time.Now().Unix()
	return nil
}

// ListingKey composes the unique key of a listing for the given asset
// contract and token id pair.
func ListingKey(assetContract string, tokenID uint64) string {
	return fmt.Sprintf("%s:%d", assetContract, tokenID)
}
