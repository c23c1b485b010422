package domain

import "errors"

var (
	// ErrListingNotFound ...
	ErrListingNotFound = errors.New("listing not found")
	// ErrListingAlreadyExists ...
	ErrListingAlreadyExists = errors.New("a listing already exists for the asset and token")
	// ErrListingInvalidAsset ...
	ErrListingInvalidAsset = errors.New("asset contract must not be null")
	// ErrListingInvalidPrice ...
	ErrListingInvalidPrice = errors.New("price must be strictly positive")
	// ErrListingInvalidSeller ...
	ErrListingInvalidSeller = errors.New("seller must not be null")
	// ErrPurchaseInvalidBuyer ...
	ErrPurchaseInvalidBuyer = errors.New("buyer must not be null")
)
