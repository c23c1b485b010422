package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
)

type listingRepositoryImpl struct {
	db *RepoManager
}

// NewListingRepositoryImpl initialize a badger implementation of the
// domain.ListingRepository
func NewListingRepositoryImpl(db *RepoManager) domain.ListingRepository {
	return listingRepositoryImpl{
		db: db,
	}
}

func (l listingRepositoryImpl) AddListing(
	ctx context.Context, listing *domain.Listing,
) error {
	return l.insertListing(ctx, *listing)
}

func (l listingRepositoryImpl) GetListing(
	ctx context.Context, assetContract string, tokenID uint64,
) (*domain.Listing, error) {
	return l.getListing(ctx, domain.ListingKey(assetContract, tokenID))
}

func (l listingRepositoryImpl) UpdateListing(
	ctx context.Context, assetContract string, tokenID uint64,
	updateFn func(l *domain.Listing) (*domain.Listing, error),
) error {
	currentListing, err := l.getListing(
		ctx, domain.ListingKey(assetContract, tokenID),
	)
	if err != nil {
		return err
	}

	updatedListing, err := updateFn(currentListing)
	if err != nil {
		return err
	}

	return l.updateListing(ctx, updatedListing.Key(), *updatedListing)
}

func (l listingRepositoryImpl) DeleteListing(
	ctx context.Context, assetContract string, tokenID uint64,
) error {
	return l.deleteListing(ctx, domain.ListingKey(assetContract, tokenID))
}

func (l listingRepositoryImpl) GetAllListings(
	ctx context.Context,
) ([]domain.Listing, error) {
	return l.findListings(ctx, &badgerhold.Query{})
}

func (l listingRepositoryImpl) GetListingsBySeller(
	ctx context.Context, seller string,
) ([]domain.Listing, error) {
	query := badgerhold.Where("Seller").Eq(seller)
	return l.findListings(ctx, query)
}

func (l listingRepositoryImpl) insertListing(
	ctx context.Context, listing domain.Listing,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = l.db.store.TxInsert(tx, listing.Key(), &listing)
	} else {
		err = l.db.store.Insert(listing.Key(), &listing)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrListingAlreadyExists
		}
		return err
	}
	return nil
}

func (l listingRepositoryImpl) getListing(
	ctx context.Context, key string,
) (*domain.Listing, error) {
	var listing domain.Listing
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = l.db.store.TxGet(tx, key, &listing)
	} else {
		err = l.db.store.Get(key, &listing)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	return &listing, nil
}

func (l listingRepositoryImpl) updateListing(
	ctx context.Context, key string, listing domain.Listing,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return l.db.store.TxUpdate(tx, key, listing)
	}
	return l.db.store.Update(key, listing)
}

func (l listingRepositoryImpl) deleteListing(
	ctx context.Context, key string,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = l.db.store.TxDelete(tx, key, domain.Listing{})
	} else {
		err = l.db.store.Delete(key, domain.Listing{})
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrListingNotFound
		}
		return err
	}
	return nil
}

func (l listingRepositoryImpl) findListings(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Listing, error) {
	var listings []domain.Listing
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = l.db.store.TxFind(tx, &listings, query)
	} else {
		err = l.db.store.Find(&listings, query)
	}

	return listings, err
}
