package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
	"github.com/nifty-network/nifty-daemon/internal/core/ports"
	"github.com/nifty-network/nifty-daemon/pkg/keylock"
)

// MarketplaceService orchestrates the listing lifecycle: it evaluates the
// preconditions of every public operation against the asset registry and
// the listing repository, applies the mutations and notifies subscribers
// of every state transition.
type MarketplaceService interface {
	// CreateListing puts an unlisted token up for sale at the given price.
	// The caller must be the current owner of the token and the
	// marketplace must be authorized to transfer it.
	CreateListing(
		ctx context.Context,
		assetContract string, tokenID, price uint64, caller string,
	) error
	// CancelListing withdraws an active listing. The caller must be the
	// current owner of the token.
	CancelListing(
		ctx context.Context,
		assetContract string, tokenID uint64, caller string,
	) error
	// UpdateListing changes the price of an active listing. The caller
	// must be the current owner of the token.
	UpdateListing(
		ctx context.Context,
		assetContract string, tokenID, newPrice uint64, caller string,
	) error
	// PurchaseListing atomically exchanges the listed token for the exact
	// payment. Token custody moves seller to buyer, funds move buyer to
	// seller and the listing is removed, all-or-nothing.
	PurchaseListing(
		ctx context.Context,
		assetContract string, tokenID, payment uint64, buyer string,
	) error
	// GetListing returns the listing of the given asset/token pair, or nil
	// if the pair is not listed.
	GetListing(
		ctx context.Context, assetContract string, tokenID uint64,
	) (*ListingInfo, error)
	// ListListings returns all active listings.
	ListListings(ctx context.Context) ([]ListingInfo, error)
	// ListListingsBySeller returns all active listings of a seller.
	ListListingsBySeller(ctx context.Context, seller string) ([]ListingInfo, error)
	// ListPurchases returns the settlement history.
	ListPurchases(ctx context.Context) ([]PurchaseInfo, error)
	// ListPurchasesByAsset returns the settlement history of an asset
	// contract.
	ListPurchasesByAsset(
		ctx context.Context, assetContract string,
	) ([]PurchaseInfo, error)
	// ListPurchasesBySeller returns all sales settled by a seller.
	ListPurchasesBySeller(ctx context.Context, seller string) ([]PurchaseInfo, error)
	// GetMarketReport returns aggregated figures about the settlement
	// history.
	GetMarketReport(ctx context.Context) (*MarketReport, error)
}

type marketplaceService struct {
	repoManager     ports.RepoManager
	assetRegistry   ports.AssetRegistry
	paymentService  ports.PaymentService
	pubsub          ports.SecurePubSub
	operatorAddress string
	locker          *keylock.KeyLock
	lockTimeout     time.Duration
}

func NewMarketplaceService(
	repoManager ports.RepoManager,
	assetRegistry ports.AssetRegistry,
	paymentService ports.PaymentService,
	pubsub ports.SecurePubSub,
	operatorAddress string,
	lockTimeout time.Duration,
) MarketplaceService {
	return &marketplaceService{
		repoManager:     repoManager,
		assetRegistry:   assetRegistry,
		paymentService:  paymentService,
		pubsub:          pubsub,
		operatorAddress: operatorAddress,
		locker:          keylock.New(),
		lockTimeout:     lockTimeout,
	}
}

func (m *marketplaceService) CreateListing(
	ctx context.Context,
	assetContract string, tokenID, price uint64, caller string,
) error {
	if price <= 0 {
		return ErrInvalidPrice
	}

	unlock, err := m.lockKey(ctx, assetContract, tokenID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := m.repoManager.ListingRepository().GetListing(
		ctx, assetContract, tokenID,
	); err == nil {
		return domain.ErrListingAlreadyExists
	} else if !errors.Is(err, domain.ErrListingNotFound) {
		return err
	}

	owner, err := m.assetRegistry.OwnerOf(ctx, assetContract, tokenID)
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrCallerNotOwner
	}

	approved, err := m.isMarketplaceApproved(ctx, assetContract, tokenID, caller)
	if err != nil {
		return err
	}
	if !approved {
		return ErrMarketplaceNotApproved
	}

	listing, err := domain.NewListing(assetContract, tokenID, price, caller)
	if err != nil {
		return err
	}
	if err := m.repoManager.ListingRepository().AddListing(ctx, listing); err != nil {
		return err
	}

	log.Debugf("listing created for %s", listing.Key())
	publishListingCreatedTopic(m.pubsub, assetContract, tokenID, price, caller)
	return nil
}

func (m *marketplaceService) CancelListing(
	ctx context.Context,
	assetContract string, tokenID uint64, caller string,
) error {
	unlock, err := m.lockKey(ctx, assetContract, tokenID)
	if err != nil {
		return err
	}
	defer unlock()

	listing, err := m.repoManager.ListingRepository().GetListing(
		ctx, assetContract, tokenID,
	)
	if err != nil {
		return err
	}

	owner, err := m.assetRegistry.OwnerOf(ctx, assetContract, tokenID)
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrCallerNotOwner
	}

	if err := m.repoManager.ListingRepository().DeleteListing(
		ctx, assetContract, tokenID,
	); err != nil {
		return err
	}

	log.Debugf("listing canceled for %s", listing.Key())
	publishListingCanceledTopic(m.pubsub, assetContract, tokenID, listing.Seller)
	return nil
}

func (m *marketplaceService) UpdateListing(
	ctx context.Context,
	assetContract string, tokenID, newPrice uint64, caller string,
) error {
	unlock, err := m.lockKey(ctx, assetContract, tokenID)
	if err != nil {
		return err
	}
	defer unlock()

	listing, err := m.repoManager.ListingRepository().GetListing(
		ctx, assetContract, tokenID,
	)
	if err != nil {
		return err
	}

	owner, err := m.assetRegistry.OwnerOf(ctx, assetContract, tokenID)
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrCallerNotOwner
	}

	if newPrice <= 0 {
		return ErrInvalidPrice
	}

	if err := m.repoManager.ListingRepository().UpdateListing(
		ctx, assetContract, tokenID,
		func(l *domain.Listing) (*domain.Listing, error) {
			if err := l.ChangePrice(newPrice); err != nil {
				return nil, err
			}
			return l, nil
		},
	); err != nil {
		return err
	}

	log.Debugf("listing updated for %s", listing.Key())
	publishListingUpdatedTopic(
		m.pubsub, assetContract, tokenID, newPrice, listing.Seller,
	)
	return nil
}

func (m *marketplaceService) PurchaseListing(
	ctx context.Context,
	assetContract string, tokenID, payment uint64, buyer string,
) error {
	unlock, err := m.lockKey(ctx, assetContract, tokenID)
	if err != nil {
		return err
	}
	defer unlock()

	listing, err := m.repoManager.ListingRepository().GetListing(
		ctx, assetContract, tokenID,
	)
	if err != nil {
		return err
	}
	if payment != listing.Price {
		return ErrInvalidPayment
	}

	purchase, err := domain.NewPurchase(listing, buyer)
	if err != nil {
		return err
	}

	// The listing removal, the settlement record, the token transfer and
	// the funds movement must commit or roll back as a unit. The tentative
	// mutations are made within a storage transaction and the external
	// calls happen before it is committed: a failed transfer discards the
	// whole transaction and leaves the listing in place.
	//
	// Current ownership is deliberately not re-verified here: a stale
	// listing whose seller disposed of the token elsewhere makes the
	// transfer fail and the purchase abort, the listing survives until the
	// seller cancels it.
	if _, err := m.repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			if err := m.repoManager.ListingRepository().DeleteListing(
				ctx, assetContract, tokenID,
			); err != nil {
				return nil, err
			}
			if err := m.repoManager.PurchaseRepository().AddPurchase(
				ctx, purchase,
			); err != nil {
				return nil, err
			}

			if err := m.assetRegistry.TransferToken(
				ctx, assetContract, listing.Seller, buyer, tokenID,
			); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrTransferFailed, err)
			}
			if err := m.paymentService.TransferFunds(
				ctx, buyer, listing.Seller, payment,
			); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, err)
			}
			return nil, nil
		},
	); err != nil {
		return err
	}

	log.Debugf("listing purchased for %s", listing.Key())
	publishListingPurchasedTopic(
		m.pubsub, assetContract, tokenID, listing.Seller, buyer,
	)
	return nil
}

func (m *marketplaceService) GetListing(
	ctx context.Context, assetContract string, tokenID uint64,
) (*ListingInfo, error) {
	listing, err := m.repoManager.ListingRepository().GetListing(
		ctx, assetContract, tokenID,
	)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return listingInfo(listing), nil
}

func (m *marketplaceService) ListListings(
	ctx context.Context,
) ([]ListingInfo, error) {
	listings, err := m.repoManager.ListingRepository().GetAllListings(ctx)
	if err != nil {
		return nil, err
	}
	return listingInfoList(listings), nil
}

func (m *marketplaceService) ListListingsBySeller(
	ctx context.Context, seller string,
) ([]ListingInfo, error) {
	listings, err := m.repoManager.ListingRepository().GetListingsBySeller(
		ctx, seller,
	)
	if err != nil {
		return nil, err
	}
	return listingInfoList(listings), nil
}

func (m *marketplaceService) ListPurchases(
	ctx context.Context,
) ([]PurchaseInfo, error) {
	purchases, err := m.repoManager.PurchaseRepository().GetAllPurchases(ctx)
	if err != nil {
		return nil, err
	}
	return purchaseInfoList(purchases), nil
}

func (m *marketplaceService) ListPurchasesByAsset(
	ctx context.Context, assetContract string,
) ([]PurchaseInfo, error) {
	purchases, err := m.repoManager.PurchaseRepository().GetPurchasesByAsset(
		ctx, assetContract,
	)
	if err != nil {
		return nil, err
	}
	return purchaseInfoList(purchases), nil
}

func (m *marketplaceService) ListPurchasesBySeller(
	ctx context.Context, seller string,
) ([]PurchaseInfo, error) {
	purchases, err := m.repoManager.PurchaseRepository().GetPurchasesBySeller(
		ctx, seller,
	)
	if err != nil {
		return nil, err
	}
	return purchaseInfoList(purchases), nil
}

func (m *marketplaceService) GetMarketReport(
	ctx context.Context,
) (*MarketReport, error) {
	purchases, err := m.repoManager.PurchaseRepository().GetAllPurchases(ctx)
	if err != nil {
		return nil, err
	}

	report := &MarketReport{
		SalesCount:    len(purchases),
		TotalVolume:   decimal.Zero,
		AveragePrice:  decimal.Zero,
		VolumeByAsset: map[string]decimal.Decimal{},
	}
	for _, p := range purchases {
		price := decimal.NewFromInt(int64(p.Price))
		report.TotalVolume = report.TotalVolume.Add(price)
		volume, ok := report.VolumeByAsset[p.AssetContract]
		if !ok {
			volume = decimal.Zero
		}
		report.VolumeByAsset[p.AssetContract] = volume.Add(price)
	}
	if report.SalesCount > 0 {
		report.AveragePrice = report.TotalVolume.Div(
			decimal.NewFromInt(int64(report.SalesCount)),
		)
	}
	return report, nil
}

// isMarketplaceApproved checks whether the marketplace operator holds
// either a blanket or a per-token authorization to move the token.
func (m *marketplaceService) isMarketplaceApproved(
	ctx context.Context, assetContract string, tokenID uint64, owner string,
) (bool, error) {
	approved, err := m.assetRegistry.IsApprovedOperator(
		ctx, assetContract, owner, m.operatorAddress,
	)
	if err != nil {
		return false, err
	}
	if approved {
		return true, nil
	}
	return m.assetRegistry.IsApprovedForToken(
		ctx, assetContract, tokenID, m.operatorAddress,
	)
}

// lockKey serializes the callers contending the same asset/token pair.
// Waiting is bounded to avoid piling up callers on a hot key.
func (m *marketplaceService) lockKey(
	ctx context.Context, assetContract string, tokenID uint64,
) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	unlock, err := m.locker.Lock(lockCtx, domain.ListingKey(assetContract, tokenID))
	if err != nil {
		return nil, ErrServiceUnavailable
	}
	return unlock, nil
}
