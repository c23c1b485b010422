package ports

import (
	"context"
	"errors"
)

// ErrTokenNotFound must be returned by any AssetRegistry implementation
// when the requested token does not exist in the registry.
var ErrTokenNotFound = errors.New("token not found in asset registry")

// AssetRegistry is the capability consumed to resolve token ownership and
// to move token custody. It is implemented by whatever asset registry is
// external to the daemon, the marketplace never assumes a single concrete
// implementation.
type AssetRegistry interface {
	// OwnerOf returns the current owner of the given token.
	OwnerOf(
		ctx context.Context, assetContract string, tokenID uint64,
	) (string, error)
	// IsApprovedOperator returns whether the operator holds a blanket
	// authorization to move any of the owner's tokens of the asset.
	IsApprovedOperator(
		ctx context.Context, assetContract, owner, operator string,
	) (bool, error)
	// IsApprovedForToken returns whether the operator is authorized to
	// move the single given token.
	IsApprovedForToken(
		ctx context.Context, assetContract string, tokenID uint64,
		operator string,
	) (bool, error)
	// TransferToken moves the custody of the token from its current owner
	// to the recipient. It fails if from is not the current owner or if
	// the authorization has been revoked since listing time.
	TransferToken(
		ctx context.Context, assetContract, from, to string, tokenID uint64,
	) error
}
