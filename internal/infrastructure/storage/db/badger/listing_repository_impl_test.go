package dbbadger

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/require"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
	"github.com/nifty-network/nifty-daemon/internal/core/ports"
)

const (
	assetContract = "0x5fbdb2315678afecb367f032d93f642f64180aa3"
	seller        = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	buyer         = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
)

func newTestRepoManager(t *testing.T) ports.RepoManager {
	t.Helper()

	repoManager, err := NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)
	return repoManager
}

func TestListingRepository(t *testing.T) {
	ctx := context.Background()
	repoManager := newTestRepoManager(t)
	repo := repoManager.ListingRepository()

	listing, err := domain.NewListing(assetContract, 7, 100, seller)
	require.NoError(t, err)

	err = repo.AddListing(ctx, listing)
	require.NoError(t, err)

	err = repo.AddListing(ctx, listing)
	require.EqualError(t, err, domain.ErrListingAlreadyExists.Error())

	found, err := repo.GetListing(ctx, assetContract, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(100), found.Price)
	require.Equal(t, seller, found.Seller)

	err = repo.UpdateListing(
		ctx, assetContract, 7,
		func(l *domain.Listing) (*domain.Listing, error) {
			if err := l.ChangePrice(150); err != nil {
				return nil, err
			}
			return l, nil
		},
	)
	require.NoError(t, err)

	found, err = repo.GetListing(ctx, assetContract, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(150), found.Price)
	require.Equal(t, seller, found.Seller)

	err = repo.DeleteListing(ctx, assetContract, 7)
	require.NoError(t, err)

	_, err = repo.GetListing(ctx, assetContract, 7)
	require.EqualError(t, err, domain.ErrListingNotFound.Error())
}

func TestListingRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	repoManager := newTestRepoManager(t)
	repo := repoManager.ListingRepository()

	for i := uint64(1); i <= 3; i++ {
		listing, err := domain.NewListing(assetContract, i, 100*i, seller)
		require.NoError(t, err)
		require.NoError(t, repo.AddListing(ctx, listing))
	}
	other, err := domain.NewListing(assetContract, 4, 400, buyer)
	require.NoError(t, err)
	require.NoError(t, repo.AddListing(ctx, other))

	all, err := repo.GetAllListings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	bySeller, err := repo.GetListingsBySeller(ctx, seller)
	require.NoError(t, err)
	require.Len(t, bySeller, 3)
}

func TestRunTransactionRollback(t *testing.T) {
	ctx := context.Background()
	repoManager := newTestRepoManager(t)

	listing, err := domain.NewListing(assetContract, 7, 100, seller)
	require.NoError(t, err)
	require.NoError(t, repoManager.ListingRepository().AddListing(ctx, listing))

	purchase, err := domain.NewPurchase(listing, buyer)
	require.NoError(t, err)

	expectedErr := errors.New("transfer rejected")
	_, err = repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			if err := repoManager.ListingRepository().DeleteListing(
				ctx, assetContract, 7,
			); err != nil {
				return nil, err
			}
			if err := repoManager.PurchaseRepository().AddPurchase(
				ctx, purchase,
			); err != nil {
				return nil, err
			}
			return nil, expectedErr
		},
	)
	require.EqualError(t, err, expectedErr.Error())

	// the discarded transaction must leave the listing in place and no
	// settlement record behind.
	found, err := repoManager.ListingRepository().GetListing(ctx, assetContract, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(100), found.Price)

	purchases, err := repoManager.PurchaseRepository().GetAllPurchases(ctx)
	require.NoError(t, err)
	require.Empty(t, purchases)
}

func TestRunTransactionConflictSurfaced(t *testing.T) {
	ctx := context.Background()
	repoManager := newTestRepoManager(t)

	listing, err := domain.NewListing(assetContract, 7, 100, seller)
	require.NoError(t, err)
	require.NoError(t, repoManager.ListingRepository().AddListing(ctx, listing))

	handlerRuns := 0
	_, err = repoManager.RunTransaction(
		ctx, false,
		func(txCtx context.Context) (interface{}, error) {
			handlerRuns++

			if _, err := repoManager.ListingRepository().GetListing(
				txCtx, assetContract, 7,
			); err != nil {
				return nil, err
			}

			if handlerRuns == 1 {
				// a concurrent transaction touching the same listing
				// commits before this one, so the commit below must be
				// discarded with a conflict.
				_, err := repoManager.RunTransaction(
					ctx, false,
					func(innerCtx context.Context) (interface{}, error) {
						return nil, repoManager.ListingRepository().UpdateListing(
							innerCtx, assetContract, 7,
							func(l *domain.Listing) (*domain.Listing, error) {
								if err := l.ChangePrice(150); err != nil {
									return nil, err
								}
								return l, nil
							},
						)
					},
				)
				if err != nil {
					return nil, err
				}
			}

			return nil, repoManager.ListingRepository().DeleteListing(
				txCtx, assetContract, 7,
			)
		},
	)
	require.True(t, errors.Is(err, badger.ErrConflict))
	// the handler must not be re-executed: it may carry external side
	// effects that a replay would duplicate.
	require.Equal(t, 1, handlerRuns)

	found, err := repoManager.ListingRepository().GetListing(ctx, assetContract, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(150), found.Price)
}

func TestRunTransactionCommit(t *testing.T) {
	ctx := context.Background()
	repoManager := newTestRepoManager(t)

	listing, err := domain.NewListing(assetContract, 7, 100, seller)
	require.NoError(t, err)
	require.NoError(t, repoManager.ListingRepository().AddListing(ctx, listing))

	purchase, err := domain.NewPurchase(listing, buyer)
	require.NoError(t, err)

	_, err = repoManager.RunTransaction(
		ctx, false,
		func(ctx context.Context) (interface{}, error) {
			if err := repoManager.ListingRepository().DeleteListing(
				ctx, assetContract, 7,
			); err != nil {
				return nil, err
			}
			return nil, repoManager.PurchaseRepository().AddPurchase(ctx, purchase)
		},
	)
	require.NoError(t, err)

	_, err = repoManager.ListingRepository().GetListing(ctx, assetContract, 7)
	require.EqualError(t, err, domain.ErrListingNotFound.Error())

	purchases, err := repoManager.PurchaseRepository().GetAllPurchases(ctx)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.Equal(t, seller, purchases[0].Seller)
	require.Equal(t, buyer, purchases[0].Buyer)
}
