package inmemory

import (
	"context"
	"sync"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
	"github.com/nifty-network/nifty-daemon/internal/core/ports"
)

// RepoManager is the in-memory implementation of ports.RepoManager.
// Transactions are emulated by taking a write lock on txLock and
// restoring a snapshot of the repositories if the handler fails, so that
// a failing settlement observes the same all-or-nothing behavior of the
// persistent storage. Every repository operation made outside a
// transaction synchronizes with txLock as a reader, so no concurrent
// write can slip between the snapshot and the restore and be erased by
// the rollback of an unrelated transaction. Operations made by the
// handler carry the tx mark in their context and skip the reader lock.
type RepoManager struct {
	listingRepository  *listingRepositoryImpl
	purchaseRepository *purchaseRepositoryImpl

	txLock *sync.RWMutex
}

// NewRepoManager returns a new empty in-memory RepoManager.
func NewRepoManager() ports.RepoManager {
	txLock := &sync.RWMutex{}
	return &RepoManager{
		listingRepository:  newListingRepositoryImpl(txLock),
		purchaseRepository: newPurchaseRepositoryImpl(txLock),
		txLock:             txLock,
	}
}

func (d *RepoManager) ListingRepository() domain.ListingRepository {
	return d.listingRepository
}

func (d *RepoManager) PurchaseRepository() domain.PurchaseRepository {
	return d.purchaseRepository
}

func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.txLock.Lock()
	defer d.txLock.Unlock()

	ctx = context.WithValue(ctx, "tx", true)

	if readOnly {
		return handler(ctx)
	}

	listings := d.listingRepository.snapshot()
	purchases := d.purchaseRepository.snapshot()

	res, err := handler(ctx)
	if err != nil {
		d.listingRepository.restore(listings)
		d.purchaseRepository.restore(purchases)
		return nil, err
	}
	return res, nil
}

func (d *RepoManager) Close() {}
