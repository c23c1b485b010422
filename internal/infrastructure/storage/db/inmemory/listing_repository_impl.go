package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
)

// listingRepositoryImpl represents an in memory storage of listings,
// keyed by asset/token pair.
type listingRepositoryImpl struct {
	listings map[string]domain.Listing

	lock   *sync.RWMutex
	txLock *sync.RWMutex
}

// NewListingRepositoryImpl returns a new empty in-memory implementation
// of the domain.ListingRepository.
func NewListingRepositoryImpl() domain.ListingRepository {
	return newListingRepositoryImpl(&sync.RWMutex{})
}

func newListingRepositoryImpl(txLock *sync.RWMutex) *listingRepositoryImpl {
	return &listingRepositoryImpl{
		listings: map[string]domain.Listing{},
		lock:     &sync.RWMutex{},
		txLock:   txLock,
	}
}

// guard blocks the operation while a transaction is in flight, so that
// its snapshot/rollback cannot erase the write. Operations made within
// the transaction handler carry a mark in the context and must proceed.
func (r *listingRepositoryImpl) guard(ctx context.Context) func() {
	if ctx.Value("tx") != nil {
		return func() {}
	}
	r.txLock.RLock()
	return r.txLock.RUnlock
}

func (r *listingRepositoryImpl) AddListing(
	ctx context.Context, listing *domain.Listing,
) error {
	defer r.guard(ctx)()
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.listings[listing.Key()]; ok {
		return domain.ErrListingAlreadyExists
	}
	r.listings[listing.Key()] = *listing
	return nil
}

func (r *listingRepositoryImpl) GetListing(
	ctx context.Context, assetContract string, tokenID uint64,
) (*domain.Listing, error) {
	defer r.guard(ctx)()
	r.lock.RLock()
	defer r.lock.RUnlock()

	listing, ok := r.listings[domain.ListingKey(assetContract, tokenID)]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &listing, nil
}

func (r *listingRepositoryImpl) UpdateListing(
	ctx context.Context, assetContract string, tokenID uint64,
	updateFn func(l *domain.Listing) (*domain.Listing, error),
) error {
	defer r.guard(ctx)()
	r.lock.Lock()
	defer r.lock.Unlock()

	key := domain.ListingKey(assetContract, tokenID)
	currentListing, ok := r.listings[key]
	if !ok {
		return domain.ErrListingNotFound
	}

	updatedListing, err := updateFn(&currentListing)
	if err != nil {
		return err
	}

	r.listings[key] = *updatedListing
	return nil
}

func (r *listingRepositoryImpl) DeleteListing(
	ctx context.Context, assetContract string, tokenID uint64,
) error {
	defer r.guard(ctx)()
	r.lock.Lock()
	defer r.lock.Unlock()

	key := domain.ListingKey(assetContract, tokenID)
	if _, ok := r.listings[key]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, key)
	return nil
}

func (r *listingRepositoryImpl) GetAllListings(
	ctx context.Context,
) ([]domain.Listing, error) {
	defer r.guard(ctx)()
	r.lock.RLock()
	defer r.lock.RUnlock()

	listings := make([]domain.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		listings = append(listings, l)
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Key() < listings[j].Key()
	})
	return listings, nil
}

func (r *listingRepositoryImpl) GetListingsBySeller(
	ctx context.Context, seller string,
) ([]domain.Listing, error) {
	defer r.guard(ctx)()
	r.lock.RLock()
	defer r.lock.RUnlock()

	listings := make([]domain.Listing, 0)
	for _, l := range r.listings {
		if l.Seller == seller {
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Key() < listings[j].Key()
	})
	return listings, nil
}

func (r *listingRepositoryImpl) snapshot() map[string]domain.Listing {
	r.lock.RLock()
	defer r.lock.RUnlock()

	listings := make(map[string]domain.Listing, len(r.listings))
	for k, v := range r.listings {
		listings[k] = v
	}
	return listings
}

func (r *listingRepositoryImpl) restore(listings map[string]domain.Listing) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.listings = listings
}
