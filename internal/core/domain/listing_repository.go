package domain

import "context"

// ListingRepository is the abstraction for any kind of database intended
// to persist Listings. A listing exists in the repository iff the related
// asset/token pair is currently for sale.
type ListingRepository interface {
	// AddListing adds a new listing to the repository. It returns
	// ErrListingAlreadyExists if the (asset, token) key is occupied.
	AddListing(ctx context.Context, listing *Listing) error
	// GetListing returns the listing for the given asset/token pair, or
	// ErrListingNotFound if the pair is not listed.
	GetListing(
		ctx context.Context, assetContract string, tokenID uint64,
	) (*Listing, error)
	// UpdateListing updates the state of a listing. The closure function
	// lets to commit multiple changes to a certain listing in a
	// transactional way.
	UpdateListing(
		ctx context.Context, assetContract string, tokenID uint64,
		updateFn func(l *Listing) (*Listing, error),
	) error
	// DeleteListing removes a listing from the repository.
	DeleteListing(
		ctx context.Context, assetContract string, tokenID uint64,
	) error
	// GetAllListings returns all active listings.
	GetAllListings(ctx context.Context) ([]Listing, error)
	// GetListingsBySeller returns all active listings created by the given
	// seller.
	GetListingsBySeller(ctx context.Context, seller string) ([]Listing, error)
}
